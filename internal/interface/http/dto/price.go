package dto

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePriceCents 解析元的字符串表示为分值
// "59" → 5900，"59.9" → 5990，"59.00" → 5900
// 不接受负数、非数字与超过两位的小数
func ParsePriceCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("非法的价格: %q", s)
	}

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}
	if intPart == "" || len(fracPart) > 2 {
		return 0, fmt.Errorf("非法的价格: %q", s)
	}

	yuan, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("非法的价格: %q", s)
	}

	cents := int64(0)
	if fracPart != "" {
		// "9" 表示90分，"99" 表示99分
		padded := fracPart + strings.Repeat("0", 2-len(fracPart))
		cents, err = strconv.ParseInt(padded, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("非法的价格: %q", s)
		}
	}

	return yuan*100 + cents, nil
}
