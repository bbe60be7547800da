package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	appreport "github.com/xiebiao/pos-inventory/internal/application/report"
	"github.com/xiebiao/pos-inventory/pkg/response"
)

// ReportHandler 报表HTTP处理器(管理员)
type ReportHandler struct {
	statisticsUseCase *appreport.StatisticsUseCase
	exportUseCase     *appreport.ExportUseCase
}

// NewReportHandler 创建报表处理器
func NewReportHandler(
	statisticsUseCase *appreport.StatisticsUseCase,
	exportUseCase *appreport.ExportUseCase,
) *ReportHandler {
	return &ReportHandler{
		statisticsUseCase: statisticsUseCase,
		exportUseCase:     exportUseCase,
	}
}

// Statistics 全局统计
// @Summary      全局统计
// @Description  商品、销售、欠款、用户的数量与金额汇总，结果缓存30秒
// @Tags         报表
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appreport.Statistics}
// @Failure      403 {object} response.Response "需要管理员权限"
// @Router       /api/v1/reports/statistics [get]
func (h *ReportHandler) Statistics(c *gin.Context) {
	result, err := h.statisticsUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Export 下载Excel报表
// @Summary      下载报表
// @Tags         报表
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        kind path string true "报表类型" Enums(sales, products, debts, general)
// @Success      200 {file} file "xlsx文件"
// @Failure      400 {object} response.Response "未知的报表类型"
// @Failure      403 {object} response.Response "需要管理员权限"
// @Router       /api/v1/reports/{kind} [get]
func (h *ReportHandler) Export(c *gin.Context) {
	file, err := h.exportUseCase.Execute(c.Request.Context(), c.Param("kind"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Name))
	c.Data(http.StatusOK, appreport.ContentTypeXLSX, file.Content)
}
