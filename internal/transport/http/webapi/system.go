package webapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/ghelioth/les-bons-artisants-test/internal/domain/catalog"
	"github.com/ghelioth/les-bons-artisants-test/internal/platform/logging"
	httptransport "github.com/ghelioth/les-bons-artisants-test/internal/transport/http"
)

// SystemService reports a small health snapshot for the dashboard.
type SystemService struct {
	catalog   *catalog.Service
	pushCount func() int
	logger    *logging.Logger
}

func NewSystemService(catalogService *catalog.Service, pushCount func() int, logger *logging.Logger) *SystemService {
	return &SystemService{
		catalog:   catalogService,
		pushCount: pushCount,
		logger:    logger,
	}
}

// Register wires the system routes onto the secured API group.
func (s *SystemService) Register(_, secured *gin.RouterGroup) {
	secured.GET("/system/summary", s.handleSummary)

	s.logger.InfoTag("HTTP", "system routes registered")
}

func (s *SystemService) handleSummary(c *gin.Context) {
	products, err := s.catalog.List(c.Request.Context())
	if err != nil {
		httptransport.RespondWithError(c, err)
		return
	}

	cpuUsage := ""
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		cpuUsage = fmt.Sprintf("%.1f%%", percents[0])
	}
	memUsage := ""
	if vm, err := mem.VirtualMemory(); err == nil {
		memUsage = fmt.Sprintf("%.1f%%", vm.UsedPercent)
	}

	connected := 0
	if s.pushCount != nil {
		connected = s.pushCount()
	}

	httptransport.RespondSuccess(c, http.StatusOK, gin.H{
		"total_products":    len(products),
		"connected_clients": connected,
		"cpu_usage":         cpuUsage,
		"memory_usage":      memUsage,
	}, "")
}
