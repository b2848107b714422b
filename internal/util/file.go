package util

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// GenerateUniqueFilename 在文件名和扩展名之间插入纳秒时间戳，
// 同名附件多次上传时互不覆盖
func GenerateUniqueFilename(originalFilename string) string {
	ext := filepath.Ext(originalFilename)
	base := strings.TrimSuffix(filepath.Base(originalFilename), ext)

	// 浏览器提交的文件名可能携带路径分隔符或空白
	base = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ':
			return '_'
		}
		return r
	}, base)
	if base == "" || base == "." {
		base = "attachment"
	}

	return fmt.Sprintf("%s_%d%s", base, time.Now().UnixNano(), ext)
}
