package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User         UserRepository
	Department   DepartmentRepository
	Category     CategoryRepository
	Asset        AssetRepository
	Issue        IssueRepository
	RequireIssue RequireIssueRepository
	History      HistoryRepository
	CustomAttr   CustomAttrRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:         NewUserRepo(db),
		Department:   NewDepartmentRepo(db),
		Category:     NewCategoryRepo(db),
		Asset:        NewAssetRepo(db),
		Issue:        NewIssueRepo(db),
		RequireIssue: NewRequireIssueRepo(db),
		History:      NewHistoryRepo(db),
		CustomAttr:   NewCustomAttrRepo(db),
	}
}
