package dto

// 部门树与类别树共用的节点增删改请求

// AddNodeRequest 新增节点请求
type AddNodeRequest struct {
	Name     string `json:"name" binding:"required,max=30"`
	ParentID uint   `json:"parent_id" binding:"required"`
}

// EditNodeRequest 重命名节点请求
type EditNodeRequest struct {
	ID   uint   `json:"id" binding:"required"`
	Name string `json:"name" binding:"required,max=30"`
}

// DeleteNodeRequest 删除节点请求
type DeleteNodeRequest struct {
	ID uint `json:"id" binding:"required"`
}
