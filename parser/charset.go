package parser

import (
	"fmt"
	"io"

	"golang.org/x/text/encoding/htmlindex"
)

// 支持声明了非UTF-8编码(GBK、ISO-8859-1等)的mapper文件
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset=[%v],err=[%w]", label, err)
	}
	return enc.NewDecoder().Reader(input), nil
}
