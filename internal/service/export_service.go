package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/zhanghx0905/AssetManagementBackend/internal/dto"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoAssets     = errors.New("没有符合条件的资产可导出")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 资产台账导出为 Excel (.xlsx)，过滤条件与资产查询共用
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
//   - 当前价值按导出时刻折算，与查询接口口径一致
type ExportService interface {
	// ExportAssets 导出资产台账为 Excel
	ExportAssets(ctx context.Context, req *dto.AssetQueryRequest, callerID uint) (*bytes.Buffer, string, error)
}

type exportService struct {
	assetSvc AssetService
	logger   *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(assetSvc AssetService, logger *zap.Logger) ExportService {
	return &exportService{assetSvc: assetSvc, logger: logger}
}

func (s *exportService) ExportAssets(ctx context.Context, req *dto.AssetQueryRequest, callerID uint) (*bytes.Buffer, string, error) {
	assets, err := s.assetSvc.Query(ctx, req, callerID)
	if err != nil {
		return nil, "", err
	}
	if len(assets) == 0 {
		return nil, "", ErrExportNoAssets
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "资产台账"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headers := []string{"编号", "名称", "类别", "型式", "数量", "原值", "当前价值", "状态", "归属人", "部门", "使用年限", "启用时间", "简介"}
	widths := []float64{8, 22, 16, 8, 8, 12, 12, 12, 14, 16, 10, 14, 30}
	for i, w := range widths {
		col := colName(i)
		f.SetColWidth(sheetName, col, col, w)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, h := range headers {
		c := cell(colName(i), 1)
		f.SetCellValue(sheetName, c, h)
		f.SetCellStyle(sheetName, c, c, headerStyle)
	}

	statusNames := map[string]string{
		"IDLE":        "闲置",
		"IN_USE":      "使用中",
		"IN_MAINTAIN": "维保中",
		"RETIRED":     "已清退",
		"DELETED":     "已删除",
	}
	typeNames := map[string]string{"ITEM": "条目型", "AMOUNT": "数量型"}

	row := 2
	for i := range assets {
		a := &assets[i]
		status := statusNames[a.Status]
		if status == "" {
			status = a.Status
		}
		typeName := typeNames[a.TypeName]
		if typeName == "" {
			typeName = a.TypeName
		}
		values := []interface{}{
			a.ID, a.Name, a.Category, typeName, a.Quantity,
			a.Value, a.CurrentValue, status, a.Owner, a.Department,
			a.ServiceLife, time.Unix(a.StartTime, 0).Format("2006-01-02"), a.Description,
		}
		for j, v := range values {
			f.SetCellValue(sheetName, cell(colName(j), row), v)
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("资产台账_%s.xlsx", time.Now().Format("20060102"))
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
