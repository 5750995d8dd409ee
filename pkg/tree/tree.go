package tree

import "errors"

// 层级引擎：对 (id, parent_id) 快照做纯内存的树运算。
// 类别树、部门树、资产从属树共用同一套操作；
// 调用方先把整棵树（或其超集）从存储层取出，构建 Forest 后再做
// 祖先回溯、层序遍历、挂载校验等，避免在遍历中穿插数据库往返。

var (
	// ErrNoRoot 树为空或根节点缺失
	ErrNoRoot = errors.New("树中不存在根节点")
	// ErrMultipleRoots 出现多个根节点，说明不变量已被破坏
	ErrMultipleRoots = errors.New("树中存在多个根节点")
	// ErrInvalidMove 挂载目标是自身或自身的后代
	ErrInvalidMove = errors.New("不能把节点挂载到自身或自身的后代上")
	// ErrProtectedRoot 根节点不允许删除
	ErrProtectedRoot = errors.New("根节点不允许删除")
	// ErrNodeMissing 节点不在快照中
	ErrNodeMissing = errors.New("节点不在当前树快照中")
)

// Node 树节点快照，ParentID 为 nil 表示根
type Node struct {
	ID       uint
	ParentID *uint
	Name     string
}

// View 嵌套树视图，用于前端渲染
type View struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Children []*View `json:"children"`
}

// Forest 以邻接索引组织的一批节点
type Forest struct {
	nodes    map[uint]Node
	children map[uint][]uint
	order    []uint // 插入顺序，保证遍历结果稳定
}

// NewForest 由节点快照构建 Forest
func NewForest(nodes []Node) *Forest {
	f := &Forest{
		nodes:    make(map[uint]Node, len(nodes)),
		children: make(map[uint][]uint),
		order:    make([]uint, 0, len(nodes)),
	}
	for _, n := range nodes {
		f.nodes[n.ID] = n
		f.order = append(f.order, n.ID)
	}
	for _, id := range f.order {
		n := f.nodes[id]
		if n.ParentID != nil {
			f.children[*n.ParentID] = append(f.children[*n.ParentID], id)
		}
	}
	return f
}

// Get 按 id 取节点
func (f *Forest) Get(id uint) (Node, bool) {
	n, ok := f.nodes[id]
	return n, ok
}

// Root 返回唯一的根节点
func (f *Forest) Root() (Node, error) {
	var root Node
	found := false
	for _, id := range f.order {
		n := f.nodes[id]
		if n.ParentID == nil {
			if found {
				return Node{}, ErrMultipleRoots
			}
			root = n
			found = true
		}
	}
	if !found {
		return Node{}, ErrNoRoot
	}
	return root, nil
}

// Ancestors 自内向外回溯祖先，includeSelf 控制是否包含自身
func (f *Forest) Ancestors(id uint, includeSelf bool) ([]Node, error) {
	n, ok := f.nodes[id]
	if !ok {
		return nil, ErrNodeMissing
	}
	var res []Node
	if includeSelf {
		res = append(res, n)
	}
	seen := map[uint]bool{n.ID: true}
	for n.ParentID != nil {
		parent, ok := f.nodes[*n.ParentID]
		if !ok || seen[parent.ID] {
			// 父节点缺失或成环都视作快照损坏
			return nil, ErrNodeMissing
		}
		res = append(res, parent)
		seen[parent.ID] = true
		n = parent
	}
	return res, nil
}

// Descendants 从 id 出发做层序遍历，不含自身
func (f *Forest) Descendants(id uint) ([]Node, error) {
	if _, ok := f.nodes[id]; !ok {
		return nil, ErrNodeMissing
	}
	var res []Node
	queue := append([]uint(nil), f.children[id]...)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		res = append(res, f.nodes[cur])
		queue = append(queue, f.children[cur]...)
	}
	return res, nil
}

// ValidateMove 校验把 id 挂到 newParent 下是否合法。
// 非法条件：newParent 是自身，或位于自身的后代集合中。
func (f *Forest) ValidateMove(id, newParent uint) error {
	if id == newParent {
		return ErrInvalidMove
	}
	if _, ok := f.nodes[newParent]; !ok {
		return ErrNodeMissing
	}
	descendants, err := f.Descendants(id)
	if err != nil {
		return err
	}
	for _, d := range descendants {
		if d.ID == newParent {
			return ErrInvalidMove
		}
	}
	return nil
}

// ValidateDelete 校验删除是否合法，根节点受保护
func (f *Forest) ValidateDelete(id uint) error {
	n, ok := f.nodes[id]
	if !ok {
		return ErrNodeMissing
	}
	if n.ParentID == nil {
		return ErrProtectedRoot
	}
	return nil
}

// HasChildren 判断节点是否有子节点
func (f *Forest) HasChildren(id uint) bool {
	return len(f.children[id]) > 0
}

// BuildView 从 id 出发构建嵌套树视图 {id, name, children}
func (f *Forest) BuildView(id uint) (*View, error) {
	n, ok := f.nodes[id]
	if !ok {
		return nil, ErrNodeMissing
	}
	v := &View{ID: n.ID, Name: n.Name, Children: []*View{}}
	for _, childID := range f.children[id] {
		child, err := f.BuildView(childID)
		if err != nil {
			return nil, err
		}
		v.Children = append(v.Children, child)
	}
	return v, nil
}
