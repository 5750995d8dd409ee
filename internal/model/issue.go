package model

// 事项状态：DOING 为唯一非终态，终态后只能删除，不能重开
const (
	IssueDoing   = "DOING"
	IssueSuccess = "SUCCESS"
	IssueFail    = "FAIL"
)

// 单资产事项类型
const (
	IssueMaintain = "MAINTAIN" // 维保
	IssueTransfer = "TRANSFER" // 转移
	IssueReturn   = "RETURN"   // 退还
	IssueRequire  = "REQUIRE"  // 领用（仅用于 RequireIssue 的展示）
)

// Issue 待办事项表 — 与单个资产关联的维保/转移/退还请求
type Issue struct {
	BaseModel
	InitiatorID uint   `gorm:"not null"                 json:"initiator_id"`
	HandlerID   uint   `gorm:"not null"                 json:"handler_id"`
	AssigneeID  *uint  `json:"assignee_id,omitempty"` // 仅转移请求使用
	AssetID     uint   `gorm:"not null"                 json:"asset_id"`
	TypeName    string `gorm:"type:varchar(10);not null" json:"type_name"`
	Status      string `gorm:"type:varchar(10);not null;default:'DOING'" json:"status"`

	// 关联
	Initiator *User  `gorm:"foreignKey:InitiatorID" json:"initiator,omitempty"`
	Handler   *User  `gorm:"foreignKey:HandlerID"   json:"handler,omitempty"`
	Assignee  *User  `gorm:"foreignKey:AssigneeID"  json:"assignee,omitempty"`
	Asset     *Asset `gorm:"foreignKey:AssetID"     json:"asset,omitempty"`
}

// TableName 指定表名
func (Issue) TableName() string { return "issues" }

// Terminal 判断事项是否已进入终态
func (i *Issue) Terminal() bool {
	return i.Status != IssueDoing
}

// RequireIssue 领用事项表 — 与资产类别关联的批量领用请求
// 审批通过时由处理人挑选类别下的闲置资产，多对多记录在 require_issue_assets
type RequireIssue struct {
	BaseModel
	InitiatorID uint   `gorm:"not null" json:"initiator_id"`
	HandlerID   uint   `gorm:"not null" json:"handler_id"`
	CategoryID  uint   `gorm:"not null" json:"category_id"`
	Reason      string `gorm:"type:text;not null;default:''" json:"reason"`
	Status      string `gorm:"type:varchar(10);not null;default:'DOING'" json:"status"`

	// 关联
	Initiator *User          `gorm:"foreignKey:InitiatorID" json:"initiator,omitempty"`
	Handler   *User          `gorm:"foreignKey:HandlerID"   json:"handler,omitempty"`
	Category  *AssetCategory `gorm:"foreignKey:CategoryID"  json:"category,omitempty"`
	Assets    []Asset        `gorm:"many2many:require_issue_assets;joinForeignKey:RequireIssueID;joinReferences:AssetID" json:"assets,omitempty"`
}

// TableName 指定表名
func (RequireIssue) TableName() string { return "require_issues" }

// Terminal 判断事项是否已进入终态
func (r *RequireIssue) Terminal() bool {
	return r.Status != IssueDoing
}
