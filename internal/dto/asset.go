package dto

// CreateAssetRequest 添加资产请求
type CreateAssetRequest struct {
	Name        string `json:"name" binding:"required,max=30"`
	Category    string `json:"category" binding:"required"`
	TypeName    string `json:"type_name"`    // 缺省 ITEM
	Quantity    int    `json:"quantity"`     // 缺省 1
	Value       int64  `json:"value"`        // 缺省 1
	Description string `json:"description"`  // 缺省空
	ParentID    *uint  `json:"parent_id,omitempty"`
	ServiceLife int    `json:"service_life"` // 缺省 5 年
	Owner       string `json:"owner"`        // 缺省为调用者
}

// EditAssetRequest 编辑资产请求，只允许改名称/简介/从属关系
type EditAssetRequest struct {
	ID          uint    `json:"id" binding:"required"`
	Name        string  `json:"name" binding:"required,max=30"`
	Description *string `json:"description,omitempty"`
	ParentID    *uint   `json:"parent_id,omitempty"`
}

// AssetQueryRequest 资产查询过滤条件，空字段表示不限制
type AssetQueryRequest struct {
	Name        string `json:"name" form:"name"`
	Category    string `json:"category" form:"category"`
	Description string `json:"description" form:"description"`
	Department  string `json:"department" form:"department"`
	Status      string `json:"status" form:"status"`
}

// AssetResponse 资产视图
type AssetResponse struct {
	ID           uint              `json:"id"`
	Name         string            `json:"name"`
	Category     string            `json:"category"`
	TypeName     string            `json:"type_name"`
	Quantity     int               `json:"quantity"`
	Value        int64             `json:"value"`
	CurrentValue float64           `json:"current_value"`
	Description  string            `json:"description"`
	ParentID     *uint             `json:"parent_id,omitempty"`
	Status       string            `json:"status"`
	Owner        string            `json:"owner"`
	Department   string            `json:"department"`
	ServiceLife  int               `json:"service_life"`
	StartTime    int64             `json:"start_time"`
	CustomAttrs  map[string]string `json:"custom_attrs,omitempty"`
}

// HistoryResponse 历史记录视图
type HistoryResponse struct {
	User string   `json:"user"`
	Time string   `json:"time"`
	Type string   `json:"type"`
	Info []string `json:"info"`
}

// SetCustomAttrRequest 设置资产自定义属性请求
type SetCustomAttrRequest struct {
	AssetID uint   `json:"asset_id" binding:"required"`
	Name    string `json:"name" binding:"required,max=30"`
	Value   string `json:"value" binding:"max=100"`
}
