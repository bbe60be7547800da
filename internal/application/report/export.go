package report

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/xiebiao/pos-inventory/internal/domain/debt"
	"github.com/xiebiao/pos-inventory/internal/domain/product"
	"github.com/xiebiao/pos-inventory/internal/domain/sale"
	apperrors "github.com/xiebiao/pos-inventory/pkg/errors"
)

// ContentTypeXLSX Excel文件MIME类型
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// 报表类型
const (
	KindSales    = "sales"
	KindProducts = "products"
	KindDebts    = "debts"
	KindGeneral  = "general"
)

// 工作表名称
const (
	sheetSales     = "销售单"
	sheetSaleItems = "销售明细"
	sheetProducts  = "商品"
	sheetDebts     = "欠款"
	sheetSummary   = "汇总"
)

// exportPageSize 导出时分批读取的批大小(仓储分页上限为100)
const exportPageSize = 100

// ErrUnknownReport 不支持的报表类型
var ErrUnknownReport = apperrors.New(apperrors.ErrCodeInvalidParams, "未知的报表类型")

// File 导出结果
type File struct {
	Name    string
	Content []byte
}

// ExportUseCase 导出Excel报表(管理员)
type ExportUseCase struct {
	productRepo product.Repository
	saleRepo    sale.Repository
	debtRepo    debt.Repository
	statistics  *StatisticsUseCase
}

// NewExportUseCase 创建导出用例
func NewExportUseCase(
	productRepo product.Repository,
	saleRepo sale.Repository,
	debtRepo debt.Repository,
	statistics *StatisticsUseCase,
) *ExportUseCase {
	return &ExportUseCase{
		productRepo: productRepo,
		saleRepo:    saleRepo,
		debtRepo:    debtRepo,
		statistics:  statistics,
	}
}

// Execute 按类型生成报表
// general包含全部工作表,并在首页附加汇总
func (uc *ExportUseCase) Execute(ctx context.Context, kind string) (*File, error) {
	var builders []func(ctx context.Context, f *excelize.File) error
	switch kind {
	case KindSales:
		builders = append(builders, uc.writeSales)
	case KindProducts:
		builders = append(builders, uc.writeProducts)
	case KindDebts:
		builders = append(builders, uc.writeDebts)
	case KindGeneral:
		builders = append(builders, uc.writeSummary, uc.writeSales, uc.writeProducts, uc.writeDebts)
	default:
		return nil, ErrUnknownReport.WithDetails(map[string]string{"kind": kind})
	}

	f := excelize.NewFile()
	defer f.Close()

	for _, build := range builders {
		if err := build(ctx, f); err != nil {
			return nil, err
		}
	}

	// 删除默认的Sheet1,第一个业务工作表设为活动页
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, apperrors.Wrap(err, "生成报表失败")
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperrors.Wrap(err, "生成报表失败")
	}

	return &File{
		Name:    fmt.Sprintf("%s-%s.xlsx", kind, time.Now().Format("20060102150405")),
		Content: buf.Bytes(),
	}, nil
}

func (uc *ExportUseCase) writeSales(ctx context.Context, f *excelize.File) error {
	sales, err := collect(func(page int) ([]*sale.Sale, int64, error) {
		return uc.saleRepo.List(ctx, sale.ListParams{Page: page, PageSize: exportPageSize})
	})
	if err != nil {
		return err
	}

	saleRows := make([][]interface{}, 0, len(sales))
	var itemRows [][]interface{}
	for _, s := range sales {
		saleRows = append(saleRows, []interface{}{
			s.ID, s.SaleNo, s.UserID, len(s.Items), s.Total.InexactFloat64(), s.CreatedAt.Format(time.DateTime),
		})
		for _, item := range s.Items {
			itemRows = append(itemRows, []interface{}{
				s.SaleNo, item.ProductID, item.ProductName, item.Quantity,
				item.UnitPrice.InexactFloat64(), item.Subtotal().InexactFloat64(),
			})
		}
	}

	if err := writeSheet(f, sheetSales,
		[]interface{}{"ID", "单号", "经办人ID", "明细数", "总金额", "创建时间"}, saleRows); err != nil {
		return err
	}
	return writeSheet(f, sheetSaleItems,
		[]interface{}{"单号", "商品ID", "商品名称", "数量", "单价", "小计"}, itemRows)
}

func (uc *ExportUseCase) writeProducts(ctx context.Context, f *excelize.File) error {
	products, err := collect(func(page int) ([]*product.Product, int64, error) {
		return uc.productRepo.List(ctx, product.ListParams{Page: page, PageSize: exportPageSize, SortBy: "name_asc"})
	})
	if err != nil {
		return err
	}

	rows := make([][]interface{}, 0, len(products))
	for _, p := range products {
		rows = append(rows, []interface{}{
			p.ID, p.Name, p.CategoryName, p.ProviderName, p.UnitPrice.InexactFloat64(), p.Stock, p.Description,
		})
	}
	return writeSheet(f, sheetProducts,
		[]interface{}{"ID", "名称", "分类", "供应商", "单价", "库存", "描述"}, rows)
}

func (uc *ExportUseCase) writeDebts(ctx context.Context, f *excelize.File) error {
	debts, err := collect(func(page int) ([]*debt.Debt, int64, error) {
		return uc.debtRepo.List(ctx, debt.ListParams{Page: page, PageSize: exportPageSize})
	})
	if err != nil {
		return err
	}

	rows := make([][]interface{}, 0, len(debts))
	for _, d := range debts {
		paid := "否"
		if d.Paid {
			paid = "是"
		}
		rows = append(rows, []interface{}{
			d.ID, d.UserID, d.Amount.InexactFloat64(), paid, d.Description, d.CreatedAt.Format(time.DateTime),
		})
	}
	return writeSheet(f, sheetDebts,
		[]interface{}{"ID", "员工ID", "金额", "已还清", "说明", "登记时间"}, rows)
}

func (uc *ExportUseCase) writeSummary(ctx context.Context, f *excelize.File) error {
	stats, err := uc.statistics.Execute(ctx)
	if err != nil {
		return err
	}

	rows := [][]interface{}{
		{"商品数", stats.Products},
		{"库存总量", stats.TotalStock},
		{"销售单数", stats.Sales},
		{"销售总额", stats.SalesAmount},
		{"欠款记录数", stats.Debts},
		{"未还欠款", stats.OutstandingDebt},
		{"用户数", stats.Users},
		{"分类数", stats.Categories},
		{"供应商数", stats.Providers},
		{"统计时间", stats.GeneratedAt.Format(time.DateTime)},
	}
	return writeSheet(f, sheetSummary, []interface{}{"指标", "数值"}, rows)
}

// writeSheet 新建工作表:首行为加粗表头,其余为数据行
func writeSheet(f *excelize.File, sheet string, header []interface{}, rows [][]interface{}) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return apperrors.Wrap(err, "创建工作表失败")
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return apperrors.Wrap(err, "创建样式失败")
	}

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return apperrors.Wrap(err, "写入表头失败")
	}
	if err := f.SetRowStyle(sheet, 1, 1, style); err != nil {
		return apperrors.Wrap(err, "设置表头样式失败")
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return apperrors.Wrap(err, "计算单元格失败")
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return apperrors.Wrap(err, "写入数据失败")
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return apperrors.Wrap(err, "计算列名失败")
	}
	return f.SetColWidth(sheet, "A", lastCol, 16)
}

// collect 逐页读取直到取完全部记录
func collect[T any](fetch func(page int) ([]T, int64, error)) ([]T, error) {
	var all []T
	for page := 1; ; page++ {
		items, total, err := fetch(page)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if len(items) == 0 || int64(len(all)) >= total {
			return all, nil
		}
	}
}
