package scanner

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

const xmlSuffix = ".xml"

// 递归查找目录下的xml文件，按字典序返回，保证输出顺序稳定
func Scan(root string, logger log.FieldLogger) (files []string, err error) {
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			logger.WithField("file", path).Debugf("skip unreadable entry,err=[%v]", walkErr)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && strings.EqualFold(filepath.Ext(path), xmlSuffix) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		err = fmt.Errorf("scan source directory failed,err=[%w],dir=[%v]", err, root)
		return
	}
	logger.Debugf("found %v xml file(s) under %v", len(files), root)
	return
}
