package service

import (
	"context"
	"errors"
	"testing"

	"github.com/zhanghx0905/AssetManagementBackend/internal/dto"
	"github.com/zhanghx0905/AssetManagementBackend/internal/model"
)

func TestAssetService_Add_Defaults(t *testing.T) {
	m, svc := setupServices()

	asset, err := svc.Asset.Add(context.Background(), &dto.CreateAssetRequest{
		Name: "交换机", Category: "通用设备",
	}, 3)
	if err != nil {
		t.Fatalf("Add 应成功: %v", err)
	}
	if asset.TypeName != model.AssetTypeItem {
		t.Errorf("期望类型=ITEM，实际=%s", asset.TypeName)
	}
	if asset.Quantity != 1 || asset.Value != 1 || asset.ServiceLife != 5 {
		t.Errorf("期望缺省 quantity=1 value=1 service_life=5，实际=%d/%d/%d",
			asset.Quantity, asset.Value, asset.ServiceLife)
	}
	if asset.Status != model.AssetIdle {
		t.Errorf("期望初始状态=IDLE，实际=%s", asset.Status)
	}
	if asset.Owner != "李四" {
		t.Errorf("期望归属人缺省为调用者李四，实际=%s", asset.Owner)
	}

	// 创建即入账一条历史
	records, _ := m.histories.ListByAsset(context.Background(), asset.ID)
	if len(records) != 1 || records[0].Op != model.HistoryCreate {
		t.Fatalf("期望一条创建历史，实际=%+v", records)
	}
	if records[0].Operator != "李四" {
		t.Errorf("期望操作人=李四，实际=%s", records[0].Operator)
	}
}

func TestAssetService_Add_ExplicitOwner(t *testing.T) {
	_, svc := setupServices()

	asset, err := svc.Asset.Add(context.Background(), &dto.CreateAssetRequest{
		Name: "键盘", Category: "通用设备", Owner: "张三", Value: 200,
	}, 3)
	if err != nil {
		t.Fatalf("Add 应成功: %v", err)
	}
	if asset.Owner != "张三" {
		t.Errorf("期望归属人=张三，实际=%s", asset.Owner)
	}
}

func TestAssetService_Add_CategoryNotFound(t *testing.T) {
	_, svc := setupServices()

	_, err := svc.Asset.Add(context.Background(), &dto.CreateAssetRequest{
		Name: "交换机", Category: "不存在的类别",
	}, 3)
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("期望 ErrCategoryNotFound，实际: %v", err)
	}
}

func TestAssetService_Add_ParentNotFound(t *testing.T) {
	_, svc := setupServices()

	badParent := uint(999)
	_, err := svc.Asset.Add(context.Background(), &dto.CreateAssetRequest{
		Name: "交换机", Category: "通用设备", ParentID: &badParent,
	}, 3)
	if !errors.Is(err, ErrAssetNotFound) {
		t.Errorf("期望 ErrAssetNotFound，实际: %v", err)
	}
}

func TestAssetService_Edit_RecordsHistory(t *testing.T) {
	m, svc := setupServices()

	desc := "备用服务器"
	err := svc.Asset.Edit(context.Background(), &dto.EditAssetRequest{
		ID: 1, Name: "主服务器", Description: &desc,
	}, "李四")
	if err != nil {
		t.Fatalf("Edit 应成功: %v", err)
	}
	if m.assets.assets[1].Name != "主服务器" {
		t.Errorf("期望名称=主服务器，实际=%s", m.assets.assets[1].Name)
	}

	records, _ := m.histories.ListByAsset(context.Background(), 1)
	if len(records) != 1 || records[0].Op != model.HistoryUpdate {
		t.Fatalf("期望一条更新历史，实际=%+v", records)
	}
	if len(records[0].Changes) != 2 {
		t.Errorf("期望记录 2 个字段变更，实际=%d", len(records[0].Changes))
	}
}

// 把资产挂到自身子孙下会形成环，必须拒绝
func TestAssetService_Edit_CycleRejected(t *testing.T) {
	_, svc := setupServices()

	// 电源(4) 是笔记本(3) 的子资产
	child := uint(4)
	err := svc.Asset.Edit(context.Background(), &dto.EditAssetRequest{
		ID: 3, Name: "笔记本", ParentID: &child,
	}, "李四")
	if !errors.Is(err, ErrInvalidParent) {
		t.Errorf("期望 ErrInvalidParent，实际: %v", err)
	}

	self := uint(3)
	err = svc.Asset.Edit(context.Background(), &dto.EditAssetRequest{
		ID: 3, Name: "笔记本", ParentID: &self,
	}, "李四")
	if !errors.Is(err, ErrInvalidParent) {
		t.Errorf("期望 ErrInvalidParent，实际: %v", err)
	}
}

// 无跨部门角色的用户只能看到本部门的资产
func TestAssetService_Query_DepartmentScoped(t *testing.T) {
	_, svc := setupServices()

	// 张三（测试组，无角色）只看到测试组名下的笔记本和电源
	assets, err := svc.Asset.Query(context.Background(), &dto.AssetQueryRequest{}, 2)
	if err != nil {
		t.Fatalf("Query 应成功: %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("期望 2 条资产，实际=%d", len(assets))
	}
	for _, a := range assets {
		if a.Department != "测试组" {
			t.Errorf("期望仅本部门资产，混入=%s(%s)", a.Name, a.Department)
		}
	}

	// 李四（ASSET 角色）可跨部门看到全部 4 条
	assets, err = svc.Asset.Query(context.Background(), &dto.AssetQueryRequest{}, 3)
	if err != nil {
		t.Fatalf("Query 应成功: %v", err)
	}
	if len(assets) != 4 {
		t.Errorf("期望 4 条资产，实际=%d", len(assets))
	}
}

func TestAssetService_Query_StatusFilter(t *testing.T) {
	_, svc := setupServices()

	assets, err := svc.Asset.Query(context.Background(), &dto.AssetQueryRequest{
		Status: model.AssetIdle,
	}, 3)
	if err != nil {
		t.Fatalf("Query 应成功: %v", err)
	}
	if len(assets) != 2 {
		t.Errorf("期望 2 条闲置资产，实际=%d", len(assets))
	}
}

// 当前价值按年线性折旧：10000 元 / 10 年，使用 1 年后剩 9000
func TestAssetService_Query_CurrentValue(t *testing.T) {
	_, svc := setupServices()

	assets, err := svc.Asset.Query(context.Background(), &dto.AssetQueryRequest{
		Name: "服务器",
	}, 3)
	if err != nil {
		t.Fatalf("Query 应成功: %v", err)
	}
	if len(assets) != 1 {
		t.Fatalf("期望 1 条资产，实际=%d", len(assets))
	}
	if assets[0].CurrentValue != 9000 {
		t.Errorf("期望当前价值=9000，实际=%v", assets[0].CurrentValue)
	}
}

func TestAssetService_ListIdle(t *testing.T) {
	_, svc := setupServices()

	// 李四在研发部，名下有 2 条闲置的通用设备
	assets, err := svc.Asset.ListIdle(context.Background(), "通用设备", 3)
	if err != nil {
		t.Fatalf("ListIdle 应成功: %v", err)
	}
	if len(assets) != 2 {
		t.Errorf("期望 2 条闲置资产，实际=%d", len(assets))
	}
}

// 级联变更：整棵子树换主换状态，每条资产各记一条带事由的历史
func TestAssetService_SetStatusAndOwner_Cascade(t *testing.T) {
	m, svc := setupServices()

	err := svc.Asset.SetStatusAndOwner(context.Background(),
		3, model.AssetInMaintain, 5, "维保", "张三", true)
	if err != nil {
		t.Fatalf("SetStatusAndOwner 应成功: %v", err)
	}

	for _, id := range []uint{3, 4} {
		a := m.assets.assets[id]
		if a.Status != model.AssetInMaintain {
			t.Errorf("资产 %d 期望状态=IN_MAINTAIN，实际=%s", id, a.Status)
		}
		if a.OwnerID != 5 {
			t.Errorf("资产 %d 期望归属维修工，实际 owner=%d", id, a.OwnerID)
		}
		records, _ := m.histories.ListByAsset(context.Background(), id)
		if len(records) != 1 {
			t.Fatalf("资产 %d 期望 1 条历史，实际=%d", id, len(records))
		}
		if records[0].Reason != "维保" {
			t.Errorf("资产 %d 期望事由=维保，实际=%s", id, records[0].Reason)
		}
	}
}

func TestAssetService_SetStatusAndOwner_NoCascade(t *testing.T) {
	m, svc := setupServices()

	err := svc.Asset.SetStatusAndOwner(context.Background(),
		3, "", 4, "转移", "李四", false)
	if err != nil {
		t.Fatalf("SetStatusAndOwner 应成功: %v", err)
	}
	// 状态传空串表示只换归属
	if m.assets.assets[3].Status != model.AssetInUse {
		t.Errorf("期望状态不变，实际=%s", m.assets.assets[3].Status)
	}
	if m.assets.assets[3].OwnerID != 4 {
		t.Errorf("期望归属王五，实际=%d", m.assets.assets[3].OwnerID)
	}
	// 非级联时子资产不动
	if m.assets.assets[4].OwnerID != 2 {
		t.Errorf("期望子资产归属不变，实际=%d", m.assets.assets[4].OwnerID)
	}
}

func TestAssetService_History_Render(t *testing.T) {
	_, svc := setupServices()

	if err := svc.Asset.SetStatusAndOwner(context.Background(),
		3, model.AssetInMaintain, 5, "维保", "张三", false); err != nil {
		t.Fatalf("SetStatusAndOwner 应成功: %v", err)
	}

	records, err := svc.Asset.History(context.Background(), 3)
	if err != nil {
		t.Fatalf("History 应成功: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("期望 1 条历史，实际=%d", len(records))
	}
	if records[0].Type != "维保" {
		t.Errorf("期望类型=维保，实际=%s", records[0].Type)
	}
	if records[0].User != "张三" {
		t.Errorf("期望操作人=张三，实际=%s", records[0].User)
	}
	if len(records[0].Info) != 2 {
		t.Fatalf("期望 2 行变更说明，实际=%v", records[0].Info)
	}
	if records[0].Info[0] != "status 从 IN_USE 变为 IN_MAINTAIN" {
		t.Errorf("状态变更描述不符，实际=%s", records[0].Info[0])
	}
	if records[0].Info[1] != "owner 从 张三 变为 维修工" {
		t.Errorf("归属变更描述不符，实际=%s", records[0].Info[1])
	}
}

func TestAssetService_History_AssetNotFound(t *testing.T) {
	_, svc := setupServices()

	_, err := svc.Asset.History(context.Background(), 999)
	if !errors.Is(err, ErrAssetNotFound) {
		t.Errorf("期望 ErrAssetNotFound，实际: %v", err)
	}
}

func TestAssetService_SetCustomAttr(t *testing.T) {
	_, svc := setupServices()

	err := svc.Asset.SetCustomAttr(context.Background(), &dto.SetCustomAttrRequest{
		AssetID: 1, Name: "序列号", Value: "SN-001",
	})
	if err != nil {
		t.Fatalf("SetCustomAttr 应成功: %v", err)
	}

	assets, err := svc.Asset.Query(context.Background(), &dto.AssetQueryRequest{
		Name: "服务器",
	}, 3)
	if err != nil {
		t.Fatalf("Query 应成功: %v", err)
	}
	if assets[0].CustomAttrs["序列号"] != "SN-001" {
		t.Errorf("期望自定义属性 序列号=SN-001，实际=%v", assets[0].CustomAttrs)
	}
}

func TestAssetService_Retire_Cascade(t *testing.T) {
	m, svc := setupServices()

	if err := svc.Asset.Retire(context.Background(), 3, "李四"); err != nil {
		t.Fatalf("Retire 应成功: %v", err)
	}
	if m.assets.assets[3].Status != model.AssetRetired {
		t.Errorf("期望笔记本已清退，实际=%s", m.assets.assets[3].Status)
	}
	if m.assets.assets[4].Status != model.AssetRetired {
		t.Errorf("期望子资产随之清退，实际=%s", m.assets.assets[4].Status)
	}
}
