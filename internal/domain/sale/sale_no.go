package sale

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateSaleNo 生成销售单号
// 格式:S + 时间(秒,yyyyMMddHHmmss) + 8位uuid十六进制
// 示例:S20251019153000a1b2c3d4
// 同一秒内并发下单也不会冲突(数据库唯一索引兜底)
func GenerateSaleNo() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return "S" + time.Now().Format("20060102150405") + suffix
}
