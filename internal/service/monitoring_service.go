package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/technet-isp/backoffice-api/internal/auth"
	"github.com/technet-isp/backoffice-api/internal/domain"
	"github.com/technet-isp/backoffice-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MonitoringService runs simulated status checks against devices and
// writes the results back to the store.
type MonitoringService struct {
	deviceRepo  *repository.DeviceRepository
	userRepo    *repository.UserRepository
	companyRepo *repository.CompanyRepository
	generators  map[domain.DeviceType]MetricGenerator
	fallback    MetricGenerator
	now         func() time.Time
	logger      *zap.Logger
}

func NewMonitoringService(
	deviceRepo *repository.DeviceRepository,
	userRepo *repository.UserRepository,
	companyRepo *repository.CompanyRepository,
	logger *zap.Logger,
) *MonitoringService {
	return &MonitoringService{
		deviceRepo:  deviceRepo,
		userRepo:    userRepo,
		companyRepo: companyRepo,
		generators:  defaultGenerators(),
		fallback:    genericMetrics,
		now:         func() time.Time { return time.Now().UTC() },
		logger:      logger,
	}
}

// SetGenerator replaces the metric generator for one device type.
// Tests use this to force deterministic metrics.
func (s *MonitoringService) SetGenerator(deviceType domain.DeviceType, gen MetricGenerator) {
	s.generators[deviceType] = gen
}

// SetClock replaces the time source
func (s *MonitoringService) SetClock(now func() time.Time) {
	s.now = now
}

// CheckDevice runs one status check against a device and writes back
// last_seen, status and last_metrics. A generator failure marks the device
// offline with an error-shaped metrics map; it never propagates to the
// caller.
func (s *MonitoringService) CheckDevice(ctx context.Context, device *domain.Device) domain.JSONMap {
	gen, ok := s.generators[device.Type]
	if !ok {
		gen = s.fallback
	}

	checkedAt := s.now()
	metrics, err := gen(device)
	if err != nil {
		s.logger.Error("device monitoring failed",
			zap.String("device_id", device.ID.String()),
			zap.String("device_name", device.Name),
			zap.Error(err),
		)
		metrics = domain.JSONMap{
			"error":      err.Error(),
			"last_check": checkedAt.Format(time.RFC3339),
		}
	}

	status := determineStatus(metrics)
	if err := s.deviceRepo.UpdateMonitoring(ctx, device.ID, status, checkedAt, metrics); err != nil {
		s.logger.Error("failed to persist monitoring result",
			zap.String("device_id", device.ID.String()),
			zap.Error(err),
		)
	}

	return metrics
}

// RunForScope checks every device visible to the current scope and returns
// the per-device results re-read after the write-back.
func (s *MonitoringService) RunForScope(ctx context.Context) ([]domain.DeviceMonitoringResult, error) {
	devices, err := s.deviceRepo.ListInScope(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	for i := range devices {
		s.CheckDevice(ctx, &devices[i])
	}

	// Re-read so the payload reflects the stored state
	checked, err := s.deviceRepo.ListInScope(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reload devices: %w", err)
	}

	results := make([]domain.DeviceMonitoringResult, len(checked))
	for i, device := range checked {
		results[i] = domain.DeviceMonitoringResult{
			ID:        device.ID,
			Name:      device.Name,
			Status:    device.Status,
			Type:      device.Type,
			IPAddress: device.IPAddress,
			LastSeen:  device.LastSeen,
			Metrics:   device.LastMetrics,
		}
	}
	return results, nil
}

// RunMonitoring assembles the full monitoring payload for POST requests
// to the dashboard route.
func (s *MonitoringService) RunMonitoring(ctx context.Context) (*domain.MonitoringData, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	user, err := s.userRepo.GetByID(ctx, userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	data := &domain.MonitoringData{
		User:           user,
		MonitoringData: []domain.DeviceMonitoringResult{},
	}

	if user.CompanyID != nil {
		company, err := s.companyRepo.GetByIDUnscoped(ctx, *user.CompanyID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to load current company: %w", err)
		}
		data.CurrentCompany = company
	}

	results, err := s.RunForScope(ctx)
	if err != nil {
		return nil, err
	}
	if results != nil {
		data.MonitoringData = results
	}

	return data, nil
}

// CheckOne runs a single device check by ID, honoring the tenant scope,
// and returns the device state after the write-back.
func (s *MonitoringService) CheckOne(ctx context.Context, id uuid.UUID) (*domain.DeviceMonitoringResult, error) {
	device, err := s.deviceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	s.CheckDevice(ctx, device)

	device, err = s.deviceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload device: %w", err)
	}

	return &domain.DeviceMonitoringResult{
		ID:        device.ID,
		Name:      device.Name,
		Status:    device.Status,
		Type:      device.Type,
		IPAddress: device.IPAddress,
		LastSeen:  device.LastSeen,
		Metrics:   device.LastMetrics,
	}, nil
}

// MonitoringSummary aggregates device health across the current scope
func (s *MonitoringService) MonitoringSummary(ctx context.Context) (domain.JSONMap, error) {
	devices, err := s.deviceRepo.ListInScope(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	var online, offline, maintenance int
	types := map[string]int{}
	for _, device := range devices {
		switch device.Status {
		case domain.DeviceStatusOnline:
			online++
		case domain.DeviceStatusOffline:
			offline++
		case domain.DeviceStatusMaintenance:
			maintenance++
		}
		types[string(device.Type)]++
	}

	return domain.JSONMap{
		"total_devices":       len(devices),
		"online_devices":      online,
		"offline_devices":     offline,
		"maintenance_devices": maintenance,
		"device_types":        types,
		"last_updated":        s.now().Format(time.RFC3339),
	}, nil
}

// DiscoverTopology builds a simulated network map from one company's
// devices. Every device becomes a node; roughly 70% of devices get one
// link to a random peer. Subnets are reserved for real discovery.
func (s *MonitoringService) DiscoverTopology(ctx context.Context, companyID uuid.UUID) (*domain.NetworkTopology, error) {
	devices, err := s.deviceRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	topology := &domain.NetworkTopology{
		Nodes:   []domain.TopologyNode{},
		Edges:   []domain.TopologyEdge{},
		Subnets: []string{},
	}

	for i, device := range devices {
		topology.Nodes = append(topology.Nodes, domain.TopologyNode{
			ID:     device.ID,
			Label:  device.Name,
			Type:   device.Type,
			Status: device.Status,
			IP:     device.IPAddress,
			Coordinates: domain.Coordinates{
				Lat: device.Latitude,
				Lng: device.Longitude,
			},
		})

		if len(devices) < 2 || randRange(1, 100) <= 30 {
			continue
		}
		peer := randRange(0, len(devices)-2)
		if peer >= i {
			peer++
		}
		topology.Edges = append(topology.Edges, domain.TopologyEdge{
			From: device.ID,
			To:   devices[peer].ID,
			Type: "network_link",
		})
	}

	return topology, nil
}

// determineStatus derives the device status from a metrics sample. An
// error key always wins; high cpu or memory flags the device for
// maintenance.
func determineStatus(metrics domain.JSONMap) domain.DeviceStatus {
	if _, ok := metrics["error"]; ok {
		return domain.DeviceStatusOffline
	}

	if metricOver(metrics, "cpu_usage", 90) || metricOver(metrics, "memory_usage", 95) {
		return domain.DeviceStatusMaintenance
	}

	return domain.DeviceStatusOnline
}

// metricOver reads a numeric metric, tolerating the int/float variants
// that survive a JSON round trip, and compares it to a threshold. A
// missing or non-numeric value counts as zero.
func metricOver(metrics domain.JSONMap, key string, threshold float64) bool {
	value, ok := metrics[key]
	if !ok {
		return false
	}
	switch v := value.(type) {
	case int:
		return float64(v) > threshold
	case int64:
		return float64(v) > threshold
	case float64:
		return v > threshold
	default:
		return false
	}
}
