package converter

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var ErrWriteOutput = errors.New("write output failed")

// 把产物写到输出目录，任何一步失败都返回ErrWriteOutput
func Save(dir string, out Output) (path string, err error) {
	if err = os.MkdirAll(dir, 0o755); err != nil {
		err = fmt.Errorf("%w,err=[%v],dir=[%v]", ErrWriteOutput, err.Error(), dir)
		return
	}

	path = filepath.Join(dir, out.FileName())
	var f *os.File
	f, err = os.Create(path)
	if err != nil {
		err = fmt.Errorf("%w,err=[%v],file=[%v]", ErrWriteOutput, err.Error(), path)
		return
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("%w,err=[%v],file=[%v]", ErrWriteOutput, closeErr.Error(), path)
		}
	}()

	w := bufio.NewWriter(f)
	if _, err = w.Write(out.Bytes()); err != nil {
		err = fmt.Errorf("%w,err=[%v],file=[%v]", ErrWriteOutput, err.Error(), path)
		return
	}
	if err = w.Flush(); err != nil {
		err = fmt.Errorf("%w,err=[%v],file=[%v]", ErrWriteOutput, err.Error(), path)
	}
	return
}
