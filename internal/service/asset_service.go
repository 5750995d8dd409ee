package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zhanghx0905/AssetManagementBackend/internal/dto"
	"github.com/zhanghx0905/AssetManagementBackend/internal/model"
	"github.com/zhanghx0905/AssetManagementBackend/internal/repository"
	"github.com/zhanghx0905/AssetManagementBackend/pkg/tree"
)

// ── 资产模块业务错误 ──

var (
	ErrAssetNotFound = errors.New("资产不存在")
	// ErrInvalidParent 从属目标是自身或自身的子资产
	ErrInvalidParent = errors.New("不能把资产挂到自身或自身的子资产上")
	ErrUnknownType   = errors.New("未知的资产类型")
)

// 历史记录操作标签，人工事由缺省时使用
var historyOpLabels = map[string]string{
	model.HistoryCreate: "创建",
	model.HistoryUpdate: "更新",
	model.HistoryDelete: "删除",
}

// AssetService 资产登记业务接口
type AssetService interface {
	GetByID(ctx context.Context, id uint) (*model.Asset, error)
	Add(ctx context.Context, req *dto.CreateAssetRequest, callerID uint) (*dto.AssetResponse, error)
	Edit(ctx context.Context, req *dto.EditAssetRequest, actor string) error
	// Query 按类型化过滤条件检索；非跨部门角色只能看到本部门资产
	Query(ctx context.Context, req *dto.AssetQueryRequest, callerID uint) ([]dto.AssetResponse, error)
	// ListIdle 调用者所在部门内某类别下的闲置资产，领用审批备选集
	ListIdle(ctx context.Context, category string, callerID uint) ([]dto.AssetResponse, error)
	// SetStatusAndOwner 资产所有权/状态变更的唯一入口。
	// cascade 为真时快照整棵子树后批量应用，每条资产各记一条历史，
	// 变更与历史在一个事务内落库。status 为空串表示只改 owner。
	SetStatusAndOwner(ctx context.Context, assetID uint, status string, ownerID uint, reason, actor string, cascade bool) error
	// Retire 清退资产（含子资产），只改状态不改归属
	Retire(ctx context.Context, id uint, actor string) error
	History(ctx context.Context, assetID uint) ([]dto.HistoryResponse, error)
	SetCustomAttr(ctx context.Context, req *dto.SetCustomAttrRequest) error
}

type assetService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAssetService 创建 AssetService 实例
func NewAssetService(repo *repository.Repository, logger *zap.Logger) AssetService {
	return &assetService{repo: repo, logger: logger}
}

func (s *assetService) GetByID(ctx context.Context, id uint) (*model.Asset, error) {
	asset, err := s.repo.Asset.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, err
	}
	return asset, nil
}

// forest 取全量资产快照构建从属树
func (s *assetService) forest(ctx context.Context) (*tree.Forest, []model.Asset, error) {
	assets, err := s.repo.Asset.ListAll(ctx)
	if err != nil {
		s.logger.Error("列出资产失败", zap.Error(err))
		return nil, nil, err
	}
	nodes := make([]tree.Node, 0, len(assets))
	for i := range assets {
		nodes = append(nodes, tree.Node{
			ID:       assets[i].ID,
			ParentID: assets[i].ParentID,
			Name:     assets[i].Name,
		})
	}
	return tree.NewForest(nodes), assets, nil
}

func (s *assetService) Add(ctx context.Context, req *dto.CreateAssetRequest, callerID uint) (*dto.AssetResponse, error) {
	category, err := s.repo.Category.GetByName(ctx, req.Category)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	// 归属人缺省为调用者
	ownerID := callerID
	if req.Owner != "" {
		owner, err := s.repo.User.GetByUsername(ctx, req.Owner)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
		ownerID = owner.ID
	}

	// 给出的从属资产必须能解析，与 Edit 的严格语义保持一致
	if req.ParentID != nil {
		if _, err := s.repo.Asset.GetByID(ctx, *req.ParentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAssetNotFound
			}
			return nil, err
		}
	}

	asset := &model.Asset{
		Name:        req.Name,
		CategoryID:  category.ID,
		TypeName:    model.AssetTypeItem,
		Quantity:    1,
		Value:       1,
		Description: req.Description,
		ParentID:    req.ParentID,
		Status:      model.AssetIdle,
		OwnerID:     ownerID,
		ServiceLife: 5,
		StartTime:   time.Now(),
	}
	if req.TypeName != "" {
		if req.TypeName != model.AssetTypeItem && req.TypeName != model.AssetTypeAmount {
			return nil, ErrUnknownType
		}
		asset.TypeName = req.TypeName
	}
	if req.Quantity > 0 {
		asset.Quantity = req.Quantity
	}
	if req.Value > 0 {
		asset.Value = req.Value
	}
	if req.ServiceLife > 0 {
		asset.ServiceLife = req.ServiceLife
	}

	if err := s.repo.Asset.Create(ctx, asset); err != nil {
		s.logger.Error("创建资产失败", zap.Error(err))
		return nil, err
	}

	// 创建也要入账历史
	actor, _ := s.username(ctx, callerID)
	if err := s.repo.History.Create(ctx, &model.HistoryRecord{
		AssetID:  asset.ID,
		Op:       model.HistoryCreate,
		Changes:  model.ChangeList{},
		Operator: actor,
	}); err != nil {
		s.logger.Error("写入创建历史失败", zap.Uint("asset_id", asset.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("添加资产", zap.String("name", asset.Name), zap.Uint("id", asset.ID))
	loaded, err := s.GetByID(ctx, asset.ID)
	if err != nil {
		return nil, err
	}
	resp := s.toAssetResponse(ctx, loaded)
	return &resp, nil
}

func (s *assetService) Edit(ctx context.Context, req *dto.EditAssetRequest, actor string) error {
	asset, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return err
	}

	var changes model.ChangeList
	if req.Name != asset.Name {
		changes = append(changes, model.FieldChange{Field: "name", Old: asset.Name, New: req.Name})
		asset.Name = req.Name
	}
	if req.Description != nil && *req.Description != asset.Description {
		changes = append(changes, model.FieldChange{Field: "description", Old: asset.Description, New: *req.Description})
		asset.Description = *req.Description
	}
	if req.ParentID != nil {
		forest, _, err := s.forest(ctx)
		if err != nil {
			return err
		}
		if err := forest.ValidateMove(req.ID, *req.ParentID); err != nil {
			switch {
			case errors.Is(err, tree.ErrInvalidMove):
				return ErrInvalidParent
			case errors.Is(err, tree.ErrNodeMissing):
				return ErrAssetNotFound
			default:
				return err
			}
		}
		if asset.ParentID == nil || *asset.ParentID != *req.ParentID {
			changes = append(changes, model.FieldChange{
				Field: "parent",
				Old:   formatParent(asset.ParentID),
				New:   formatParent(req.ParentID),
			})
			asset.ParentID = req.ParentID
		}
	}

	if len(changes) == 0 {
		return nil
	}

	if err := s.repo.Asset.Update(ctx, asset); err != nil {
		s.logger.Error("更新资产失败", zap.Uint("id", req.ID), zap.Error(err))
		return err
	}
	if err := s.repo.History.Create(ctx, &model.HistoryRecord{
		AssetID:  asset.ID,
		Op:       model.HistoryUpdate,
		Changes:  changes,
		Operator: actor,
	}); err != nil {
		s.logger.Error("写入更新历史失败", zap.Uint("asset_id", asset.ID), zap.Error(err))
		return err
	}
	return nil
}

func (s *assetService) Query(ctx context.Context, req *dto.AssetQueryRequest, callerID uint) ([]dto.AssetResponse, error) {
	caller, err := s.repo.User.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	filters := repository.AssetFilters{
		NameContains:        req.Name,
		DescriptionContains: req.Description,
		Status:              req.Status,
	}
	if req.Category != "" {
		category, err := s.repo.Category.GetByName(ctx, req.Category)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
		filters.CategoryID = &category.ID
	}

	// 默认只看本部门，资产/系统管理员可跨部门
	crossDepartment := caller.HasRole(model.RoleAsset) || caller.HasRole(model.RoleSystem)
	if !crossDepartment {
		deptID := caller.DepartmentID
		filters.DepartmentID = &deptID
	} else if req.Department != "" {
		dept, err := s.repo.Department.GetByName(ctx, req.Department)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrDepartmentNotFound
			}
			return nil, err
		}
		filters.DepartmentID = &dept.ID
	}

	assets, err := s.repo.Asset.Query(ctx, filters)
	if err != nil {
		s.logger.Error("查询资产失败", zap.Error(err))
		return nil, err
	}

	res := make([]dto.AssetResponse, 0, len(assets))
	for i := range assets {
		res = append(res, s.toAssetResponse(ctx, &assets[i]))
	}
	return res, nil
}

func (s *assetService) ListIdle(ctx context.Context, categoryName string, callerID uint) ([]dto.AssetResponse, error) {
	caller, err := s.repo.User.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	category, err := s.repo.Category.GetByName(ctx, categoryName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	assets, err := s.repo.Asset.ListIdle(ctx, caller.DepartmentID, category.ID)
	if err != nil {
		s.logger.Error("查询闲置资产失败", zap.Error(err))
		return nil, err
	}

	res := make([]dto.AssetResponse, 0, len(assets))
	for i := range assets {
		res = append(res, s.toAssetResponse(ctx, &assets[i]))
	}
	return res, nil
}

func (s *assetService) SetStatusAndOwner(ctx context.Context, assetID uint, status string, ownerID uint, reason, actor string, cascade bool) error {
	newOwner, err := s.repo.User.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	// 先快照受影响的 id 集，再整批应用，避免遍历中穿插写入
	forest, assets, err := s.forest(ctx)
	if err != nil {
		return err
	}
	assetByID := make(map[uint]*model.Asset, len(assets))
	for i := range assets {
		assetByID[assets[i].ID] = &assets[i]
	}
	if _, ok := assetByID[assetID]; !ok {
		return ErrAssetNotFound
	}

	ids := []uint{assetID}
	if cascade {
		descendants, err := forest.Descendants(assetID)
		if err != nil {
			return err
		}
		for _, d := range descendants {
			ids = append(ids, d.ID)
		}
	}

	ownerNames, err := s.ownerNames(ctx, assetByID, ids, newOwner)
	if err != nil {
		return err
	}

	histories := make([]model.HistoryRecord, 0, len(ids))
	for _, id := range ids {
		old := assetByID[id]
		var changes model.ChangeList
		if status != "" && old.Status != status {
			changes = append(changes, model.FieldChange{Field: "status", Old: old.Status, New: status})
		}
		if old.OwnerID != newOwner.ID {
			changes = append(changes, model.FieldChange{
				Field: "owner", Old: ownerNames[old.OwnerID], New: newOwner.Username,
			})
		}
		histories = append(histories, model.HistoryRecord{
			AssetID:  id,
			Op:       model.HistoryUpdate,
			Changes:  changes,
			Operator: actor,
			Reason:   reason,
		})
	}

	if err := s.repo.Asset.ApplyStatusOwner(ctx, ids, status, newOwner.ID, histories); err != nil {
		s.logger.Error("批量变更资产失败",
			zap.Uint("asset_id", assetID),
			zap.String("status", status),
			zap.Bool("cascade", cascade),
			zap.Error(err))
		return err
	}
	return nil
}

func (s *assetService) Retire(ctx context.Context, id uint, actor string) error {
	asset, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.SetStatusAndOwner(ctx, id, model.AssetRetired, asset.OwnerID, "清退", actor, true)
}

func (s *assetService) History(ctx context.Context, assetID uint) ([]dto.HistoryResponse, error) {
	if _, err := s.GetByID(ctx, assetID); err != nil {
		return nil, err
	}
	records, err := s.repo.History.ListByAsset(ctx, assetID)
	if err != nil {
		s.logger.Error("查询资产历史失败", zap.Uint("asset_id", assetID), zap.Error(err))
		return nil, err
	}

	res := make([]dto.HistoryResponse, 0, len(records))
	for i := range records {
		res = append(res, renderHistory(&records[i]))
	}
	return res, nil
}

func (s *assetService) SetCustomAttr(ctx context.Context, req *dto.SetCustomAttrRequest) error {
	if _, err := s.GetByID(ctx, req.AssetID); err != nil {
		return err
	}
	attr, err := s.repo.CustomAttr.GetOrCreate(ctx, req.Name)
	if err != nil {
		s.logger.Error("解析自定义属性失败", zap.String("name", req.Name), zap.Error(err))
		return err
	}
	return s.repo.CustomAttr.SetValue(ctx, req.AssetID, attr.ID, req.Value)
}

// ── 内部辅助方法 ──

// renderHistory 历史记录投影：人工事由覆盖默认操作标签，
// 更新记录逐字段生成一行变更说明
func renderHistory(record *model.HistoryRecord) dto.HistoryResponse {
	label := historyOpLabels[record.Op]
	if record.Reason != "" {
		label = record.Reason
	}
	info := make([]string, 0, len(record.Changes))
	if record.Op == model.HistoryUpdate {
		for _, change := range record.Changes {
			info = append(info, fmt.Sprintf("%s 从 %s 变为 %s", change.Field, change.Old, change.New))
		}
	}
	return dto.HistoryResponse{
		User: record.Operator,
		Time: record.CreatedAt.Format("2006-01-02 15:04:05"),
		Type: label,
		Info: info,
	}
}

// toAssetResponse 资产投影，类别/归属人等跨实体信息由预加载提供
func (s *assetService) toAssetResponse(ctx context.Context, asset *model.Asset) dto.AssetResponse {
	category := ""
	if asset.Category != nil {
		category = asset.Category.Name
	}
	owner, department := "", ""
	if asset.Owner != nil {
		owner = asset.Owner.Username
		if asset.Owner.Department != nil {
			department = asset.Owner.Department.Name
		}
	}
	attrs, err := s.repo.CustomAttr.MapByAsset(ctx, asset.ID)
	if err != nil {
		s.logger.Warn("查询自定义属性失败", zap.Uint("asset_id", asset.ID), zap.Error(err))
		attrs = nil
	}
	return dto.AssetResponse{
		ID:           asset.ID,
		Name:         asset.Name,
		Category:     category,
		TypeName:     asset.TypeName,
		Quantity:     asset.Quantity,
		Value:        asset.Value,
		CurrentValue: asset.CurrentValue(time.Now()),
		Description:  asset.Description,
		ParentID:     asset.ParentID,
		Status:       asset.Status,
		Owner:        owner,
		Department:   department,
		ServiceLife:  asset.ServiceLife,
		StartTime:    asset.StartTime.Unix(),
		CustomAttrs:  attrs,
	}
}

// ownerNames 收集旧归属人的用户名，历史记录里展示用户名而非 id
func (s *assetService) ownerNames(ctx context.Context, assetByID map[uint]*model.Asset, ids []uint, newOwner *model.User) (map[uint]string, error) {
	names := map[uint]string{newOwner.ID: newOwner.Username}
	for _, id := range ids {
		oldOwnerID := assetByID[id].OwnerID
		if _, ok := names[oldOwnerID]; ok {
			continue
		}
		owner, err := s.repo.User.GetByID(ctx, oldOwnerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				names[oldOwnerID] = "unknown"
				continue
			}
			return nil, err
		}
		names[oldOwnerID] = owner.Username
	}
	return names, nil
}

func (s *assetService) username(ctx context.Context, userID uint) (string, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		return "unknown", err
	}
	return user.Username, nil
}

func formatParent(id *uint) string {
	if id == nil {
		return ""
	}
	return fmt.Sprintf("%d", *id)
}
