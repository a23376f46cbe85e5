package minext

import (
	"fmt"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"
)

const unknown = "unknown"

// HostInfo describes the machine the reports are produced on. Fields that
// cannot be read are set to "unknown" and the first failure is returned.
func HostInfo() (SysInfo, error) {
	info := SysInfo{Platform: unknown, CPU: unknown, RAM: unknown}
	var firstErr error
	keep := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	if hostStat, err := host.Info(); err != nil {
		keep(err)
	} else {
		info.Platform = hostStat.Platform
	}
	if cpuStat, err := cpu.Info(); err != nil {
		keep(err)
	} else if len(cpuStat) > 0 {
		info.CPU = cpuStat[0].ModelName
	}
	if vmStat, err := mem.VirtualMemory(); err != nil {
		keep(err)
	} else {
		info.RAM = fmt.Sprintf("%d GB", vmStat.Total/1024/1024/1024)
	}
	return info, firstErr
}
