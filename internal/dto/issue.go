package dto

// RequireRequest 按类别批量领用请求
type RequireRequest struct {
	Category string `json:"category" binding:"required"`
	Reason   string `json:"reason"`
}

// FixRequest 维保请求，username 为维保人
type FixRequest struct {
	AssetID  uint   `json:"asset_id" binding:"required"`
	Username string `json:"username" binding:"required"`
}

// TransferRequest 转移请求，username 为受让人
type TransferRequest struct {
	AssetID  uint   `json:"asset_id" binding:"required"`
	Username string `json:"username" binding:"required"`
}

// ReturnRequest 退还请求
type ReturnRequest struct {
	AssetID uint `json:"asset_id" binding:"required"`
}

// HandleRequest 处理待办事项请求
type HandleRequest struct {
	ID       uint   `json:"id" binding:"required"`
	Success  *bool  `json:"success" binding:"required"`
	TypeName string `json:"type_name" binding:"required"`
}

// PermitRequireRequest 批准领用并分配资产请求
type PermitRequireRequest struct {
	ID       uint   `json:"id" binding:"required"`
	AssetIDs []uint `json:"asset_ids" binding:"required,min=1"`
}

// DeleteIssueRequest 删除事项请求
type DeleteIssueRequest struct {
	ID       uint   `json:"id" binding:"required"`
	TypeName string `json:"type_name" binding:"required"`
}

// RequireAssetListRequest 领用审批时的闲置资产列表请求
type RequireAssetListRequest struct {
	Category string `json:"category" binding:"required"`
}

// IssueResponse 事项视图
type IssueResponse struct {
	ID        uint   `json:"id"`
	Initiator string `json:"initiator"`
	Asset     string `json:"asset"`
	TypeName  string `json:"type_name"`
	Assignee  string `json:"assignee,omitempty"`
	Status    string `json:"status"`
	Info      string `json:"info,omitempty"`
	StartTime int64  `json:"start_time"`
}
