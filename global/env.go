package global

import (
	"github.com/haierkeys/fast-note-offline-client/pkg/fileurl"
)

var (
	// 程序执行目录
	ROOT string
	Name string = "Fast Note Offline Client"
)

func init() {
	ROOT = fileurl.GetExePath() + "/"
}
