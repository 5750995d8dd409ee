package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zhanghx0905/AssetManagementBackend/internal/model"
)

// RequireIssueRepository 领用事项数据访问接口
type RequireIssueRepository interface {
	// CreateIfNoOpen 语义同 IssueRepository.CreateIfNoOpen，
	// 锁定的目标是资产类别行，键为 (initiator, category)
	CreateIfNoOpen(ctx context.Context, issue *model.RequireIssue) error
	GetByID(ctx context.Context, id uint) (*model.RequireIssue, error)
	Update(ctx context.Context, issue *model.RequireIssue) error
	Delete(ctx context.Context, id uint) error
	// AppendAssets 把分配的资产并入事项的多对多集合
	AppendAssets(ctx context.Context, issueID uint, assetIDs []uint) error
	ListByHandler(ctx context.Context, handlerID uint, status string) ([]model.RequireIssue, error)
	ListByInitiator(ctx context.Context, initiatorID uint) ([]model.RequireIssue, error)
}

// requireIssueRepo RequireIssueRepository 的 GORM 实现
type requireIssueRepo struct {
	db *gorm.DB
}

// NewRequireIssueRepo 创建 RequireIssueRepository 实例
func NewRequireIssueRepo(db *gorm.DB) RequireIssueRepository {
	return &requireIssueRepo{db: db}
}

func (r *requireIssueRepo) CreateIfNoOpen(ctx context.Context, issue *model.RequireIssue) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category model.AssetCategory
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&category, issue.CategoryID).Error; err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&model.RequireIssue{}).
			Where("initiator_id = ? AND category_id = ? AND status = ?",
				issue.InitiatorID, issue.CategoryID, model.IssueDoing).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrOpenIssueExists
		}
		return tx.Create(issue).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrOpenIssueExists
	}
	return err
}

func (r *requireIssueRepo) GetByID(ctx context.Context, id uint) (*model.RequireIssue, error) {
	var issue model.RequireIssue
	err := r.db.WithContext(ctx).
		Preload("Initiator").
		Preload("Handler").
		Preload("Category").
		Preload("Assets").
		First(&issue, id).Error
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

func (r *requireIssueRepo) Update(ctx context.Context, issue *model.RequireIssue) error {
	return r.db.WithContext(ctx).Save(issue).Error
}

func (r *requireIssueRepo) Delete(ctx context.Context, id uint) error {
	// 多对多记录随外键级联删除，已分配的资产不受影响
	return r.db.WithContext(ctx).Delete(&model.RequireIssue{}, id).Error
}

func (r *requireIssueRepo) AppendAssets(ctx context.Context, issueID uint, assetIDs []uint) error {
	if len(assetIDs) == 0 {
		return nil
	}
	rows := make([]map[string]interface{}, 0, len(assetIDs))
	for _, assetID := range assetIDs {
		rows = append(rows, map[string]interface{}{
			"require_issue_id": issueID,
			"asset_id":         assetID,
		})
	}
	return r.db.WithContext(ctx).
		Table("require_issue_assets").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(rows).Error
}

func (r *requireIssueRepo) ListByHandler(ctx context.Context, handlerID uint, status string) ([]model.RequireIssue, error) {
	q := r.db.WithContext(ctx).
		Preload("Initiator").
		Preload("Category").
		Preload("Assets").
		Where("handler_id = ?", handlerID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var issues []model.RequireIssue
	err := q.Order("id ASC").Find(&issues).Error
	return issues, err
}

func (r *requireIssueRepo) ListByInitiator(ctx context.Context, initiatorID uint) ([]model.RequireIssue, error) {
	var issues []model.RequireIssue
	err := r.db.WithContext(ctx).
		Preload("Initiator").
		Preload("Category").
		Preload("Assets").
		Where("initiator_id = ?", initiatorID).
		Order("id ASC").
		Find(&issues).Error
	return issues, err
}
