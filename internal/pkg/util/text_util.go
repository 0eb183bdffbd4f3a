package util

import (
	"sync"

	"github.com/liuzl/gocc"
)

var (
	t2sOnce sync.Once
	t2sConv *gocc.OpenCC
)

// NormalizeSimplified 搜索词尽可能转简体，词典加载失败时原样返回
func NormalizeSimplified(text string) string {
	t2sOnce.Do(func() {
		conv, err := gocc.New("t2s")
		if err == nil {
			t2sConv = conv
		}
	})
	if t2sConv == nil {
		return text
	}
	out, err := t2sConv.Convert(text)
	if err != nil {
		return text
	}
	return out
}
