// Package zhconv normalizes simplified Chinese input to the traditional
// forms used throughout the corpus and its static tables.
package zhconv

import (
	"sync"

	"github.com/liuzl/gocc"
	"go.uber.org/zap"

	"github.com/Feiyang472/naive-text/internal/logger"
)

var (
	once sync.Once
	s2t  *gocc.OpenCC
)

// ToTraditional converts simplified Chinese to traditional Chinese, e.g.
// 刘宋 → 劉宋, so query expressions typed in simplified forms still hit the
// catalogue. Input already in traditional forms passes through unchanged;
// so does everything when the converter cannot be initialized.
func ToTraditional(text string) string {
	once.Do(func() {
		conv, err := gocc.New("s2t")
		if err != nil {
			logger.Warn("s2t converter unavailable; queries must use traditional forms",
				zap.Error(err))
			return
		}
		s2t = conv
	})
	if s2t == nil {
		return text
	}
	converted, err := s2t.Convert(text)
	if err != nil {
		return text
	}
	return converted
}
