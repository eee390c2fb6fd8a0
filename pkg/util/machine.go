package util

import (
	"os"
	"sync"

	"github.com/denisbrodbeck/machineid"
)

var (
	machineID      string
	machineIDMutex sync.Mutex
)

// GetMachineID 获取当前机器的唯一标识符
// 优先使用 machineid 库，失败则退化为主机名
func GetMachineID() string {
	machineIDMutex.Lock()
	defer machineIDMutex.Unlock()

	if machineID != "" {
		return machineID
	}

	if id, err := machineid.ID(); err == nil && id != "" {
		machineID = id
		return machineID
	}

	if host, err := os.Hostname(); err == nil {
		machineID = host
	}
	return machineID
}
