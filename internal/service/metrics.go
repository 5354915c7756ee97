package service

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/technet-isp/backoffice-api/internal/domain"
)

// MetricGenerator produces one synthetic metrics sample for a device.
// A returned error marks the check as failed; the device goes offline
// with an error-shaped metrics map.
type MetricGenerator func(device *domain.Device) (domain.JSONMap, error)

// randRange returns a uniform random int in [min, max]
func randRange(min, max int) int {
	return min + rand.Intn(max-min+1)
}

func routerMetrics(device *domain.Device) (domain.JSONMap, error) {
	return domain.JSONMap{
		"cpu_usage":          randRange(5, 30),
		"memory_usage":       randRange(15, 45),
		"temperature":        randRange(35, 65),
		"uptime":             fmt.Sprintf("%d days", randRange(1, 365)),
		"total_interfaces":   randRange(4, 24),
		"active_connections": randRange(50, 500),
		"bandwidth_in":       fmt.Sprintf("%d Mbps", randRange(100, 1000)),
		"bandwidth_out":      fmt.Sprintf("%d Mbps", randRange(50, 800)),
		"packet_loss":        float64(randRange(0, 5)) / 100,
		"wireless_clients":   randRange(0, 50),
	}, nil
}

func oltMetrics(device *domain.Device) (domain.JSONMap, error) {
	return domain.JSONMap{
		"cpu_usage":             randRange(10, 40),
		"memory_usage":          randRange(20, 60),
		"temperature":           randRange(40, 70),
		"uptime":                fmt.Sprintf("%d days", randRange(30, 365)),
		"pon_ports":             randRange(4, 16),
		"active_onus":           randRange(50, 200),
		"total_onus":            randRange(100, 300),
		"optical_power":         fmt.Sprintf("-%d dBm", randRange(5, 25)),
		"bandwidth_utilization": fmt.Sprintf("%d%%", randRange(20, 80)),
		"alarm_count":           randRange(0, 5),
	}, nil
}

func tr069Metrics(device *domain.Device) (domain.JSONMap, error) {
	return domain.JSONMap{
		"cpu_usage":       randRange(5, 25),
		"memory_usage":    randRange(10, 40),
		"active_sessions": randRange(10, 100),
		"total_devices":   randRange(100, 1000),
		"online_devices":  randRange(80, 900),
		"pending_tasks":   randRange(0, 20),
		"completed_tasks": randRange(50, 500),
		"failed_tasks":    randRange(0, 10),
		"database_size":   fmt.Sprintf("%d MB", randRange(500, 5000)),
		"response_time":   fmt.Sprintf("%d ms", randRange(10, 100)),
	}, nil
}

func sshMetrics(device *domain.Device) (domain.JSONMap, error) {
	return domain.JSONMap{
		"cpu_usage":          randRange(5, 50),
		"memory_usage":       randRange(20, 70),
		"disk_usage":         randRange(30, 90),
		"load_average":       fmt.Sprintf("%.2f", float64(randRange(1, 500))/100),
		"uptime":             fmt.Sprintf("%d days", randRange(1, 365)),
		"active_connections": randRange(1, 50),
		"network_rx":         fmt.Sprintf("%d MB/s", randRange(100, 1000)),
		"network_tx":         fmt.Sprintf("%d MB/s", randRange(50, 800)),
		"processes":          randRange(50, 200),
		"users_logged_in":    randRange(0, 10),
	}, nil
}

func snmpMetrics(device *domain.Device) (domain.JSONMap, error) {
	versions := []string{"v1", "v2c", "v3"}
	return domain.JSONMap{
		"system_uptime":    fmt.Sprintf("%d seconds", randRange(1000, 100000)),
		"interfaces_count": randRange(2, 48),
		"interface_status": fmt.Sprintf("Up/Down: %d/%d", randRange(1, 20), randRange(0, 5)),
		"snmp_version":     versions[rand.Intn(len(versions))],
		"response_time":    fmt.Sprintf("%d ms", randRange(1, 100)),
		"packet_loss":      float64(randRange(0, 10)) / 100,
		"bandwidth_in":     fmt.Sprintf("%d Mbps", randRange(10, 100)),
		"bandwidth_out":    fmt.Sprintf("%d Mbps", randRange(5, 80)),
		"error_count":      randRange(0, 5),
		"last_poll":        time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func genericMetrics(device *domain.Device) (domain.JSONMap, error) {
	return domain.JSONMap{
		"status":        "online",
		"response_time": fmt.Sprintf("%d ms", randRange(1, 50)),
		"uptime":        fmt.Sprintf("%d days", randRange(1, 365)),
		"last_check":    time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// defaultGenerators maps each known device type to its metric generator.
// Unknown types fall back to genericMetrics.
func defaultGenerators() map[domain.DeviceType]MetricGenerator {
	return map[domain.DeviceType]MetricGenerator{
		domain.DeviceTypeRouter: routerMetrics,
		domain.DeviceTypeOLT:    oltMetrics,
		domain.DeviceTypeTR069:  tr069Metrics,
		domain.DeviceTypeSSH:    sshMetrics,
		domain.DeviceTypeSNMP:   snmpMetrics,
	}
}
