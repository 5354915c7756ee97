package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeviceStatusStats is the dashboard device breakdown by status.
// It is computed over the whole store, not the resolved scope; the
// original system behaves this way and the behavior is kept as-is.
type DeviceStatusStats struct {
	Online      int64 `json:"online"`
	Offline     int64 `json:"offline"`
	Maintenance int64 `json:"maintenance"`
}

// CustomerStatusStats is the dashboard customer breakdown by status,
// also computed globally (see DeviceStatusStats).
type CustomerStatusStats struct {
	Active    int64 `json:"active"`
	Suspended int64 `json:"suspended"`
	Inactive  int64 `json:"inactive"`
}

// DashboardStats holds the aggregate counters for one dashboard request.
// The totals are restricted to the resolved tenant scope; the status
// breakdowns are global.
type DashboardStats struct {
	TotalDevices   int64               `json:"totalDevices"`
	TotalCustomers int64               `json:"totalCustomers"`
	TotalEmployees int64               `json:"totalEmployees"`
	TotalRevenue   decimal.Decimal     `json:"totalRevenue"`
	DeviceStats    DeviceStatusStats   `json:"deviceStats"`
	CustomerStats  CustomerStatusStats `json:"customerStats"`
}

// DashboardData is the payload for GET /isp
type DashboardData struct {
	User           *User          `json:"user"`
	CurrentCompany *Company       `json:"currentCompany"`
	Companies      []Company      `json:"companies"`
	Stats          DashboardStats `json:"stats"`
	RecentBilling  []Billing      `json:"recentBilling"`
}

// DeviceMonitoringResult is one device's entry in the POST /isp payload,
// re-read after the monitoring write-back.
type DeviceMonitoringResult struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	Status    DeviceStatus `json:"status"`
	Type      DeviceType   `json:"type"`
	IPAddress string       `json:"ip_address"`
	LastSeen  *time.Time   `json:"last_seen"`
	Metrics   JSONMap      `json:"metrics"`
}

// MonitoringData is the payload for POST /isp
type MonitoringData struct {
	User           *User                    `json:"user"`
	CurrentCompany *Company                 `json:"currentCompany"`
	MonitoringData []DeviceMonitoringResult `json:"monitoringData"`
}

// NetworkTopology is the simulated network map for one company's devices.
// Subnets stay empty until real discovery replaces the simulation.
type NetworkTopology struct {
	Nodes   []TopologyNode `json:"nodes"`
	Edges   []TopologyEdge `json:"edges"`
	Subnets []string       `json:"subnets"`
}

// TopologyNode is one device on the network map
type TopologyNode struct {
	ID          uuid.UUID    `json:"id"`
	Label       string       `json:"label"`
	Type        DeviceType   `json:"type"`
	Status      DeviceStatus `json:"status"`
	IP          string       `json:"ip"`
	Coordinates Coordinates  `json:"coordinates"`
}

// Coordinates carries the optional geo position of a node
type Coordinates struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// TopologyEdge is a simulated link between two devices
type TopologyEdge struct {
	From uuid.UUID `json:"from"`
	To   uuid.UUID `json:"to"`
	Type string    `json:"type"`
}

// LoginRequest carries credentials for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and the authenticated user
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// CreateCompanyRequest creates a company (parent or tenant)
type CreateCompanyRequest struct {
	Name     string      `json:"name" validate:"required,max=200"`
	Slug     string      `json:"slug" validate:"required,max=200"`
	Email    string      `json:"email" validate:"required,email"`
	Phone    string      `json:"phone" validate:"max=50"`
	Address  string      `json:"address"`
	Logo     string      `json:"logo" validate:"omitempty,url"`
	Type     CompanyType `json:"type" validate:"required,oneof=parent tenant"`
	ParentID *uuid.UUID  `json:"parentId"`
	Settings JSONMap     `json:"settings"`
}

// UpdateCompanyRequest updates mutable company fields
type UpdateCompanyRequest struct {
	Name     string  `json:"name" validate:"required,max=200"`
	Phone    string  `json:"phone" validate:"max=50"`
	Address  string  `json:"address"`
	Logo     string  `json:"logo" validate:"omitempty,url"`
	IsActive *bool   `json:"isActive"`
	Settings JSONMap `json:"settings"`
}

// CreateDeviceRequest registers a device under a company
type CreateDeviceRequest struct {
	CompanyID        uuid.UUID  `json:"companyId" validate:"required"`
	Name             string     `json:"name" validate:"required,max=200"`
	Type             DeviceType `json:"type" validate:"required,oneof=router olt tr069 ssh snmp other"`
	Brand            string     `json:"brand" validate:"max=100"`
	Model            string     `json:"model" validate:"max=100"`
	IPAddress        string     `json:"ipAddress" validate:"required,ip"`
	Port             int        `json:"port" validate:"gte=0,lte=65535"`
	Username         string     `json:"username" validate:"max=100"`
	Password         string     `json:"password" validate:"max=255"`
	CommunityString  string     `json:"communityString" validate:"max=100"`
	Latitude         *float64   `json:"latitude"`
	Longitude        *float64   `json:"longitude"`
	Description      string     `json:"description"`
	MonitoringConfig JSONMap    `json:"monitoringConfig"`
}

// UpdateDeviceRequest updates mutable device fields. Status, last_seen
// and last_metrics are owned by the monitoring path and not editable here.
type UpdateDeviceRequest struct {
	Name             string  `json:"name" validate:"required,max=200"`
	Brand            string  `json:"brand" validate:"max=100"`
	Model            string  `json:"model" validate:"max=100"`
	IPAddress        string  `json:"ipAddress" validate:"required,ip"`
	Port             int     `json:"port" validate:"gte=0,lte=65535"`
	Username         string  `json:"username" validate:"max=100"`
	Password         string  `json:"password" validate:"max=255"`
	CommunityString  string  `json:"communityString" validate:"max=100"`
	Description      string  `json:"description"`
	MonitoringConfig JSONMap `json:"monitoringConfig"`
	IsActive         *bool   `json:"isActive"`
}

// CreateCustomerRequest registers a subscriber under a company
type CreateCustomerRequest struct {
	CompanyID        uuid.UUID       `json:"companyId" validate:"required"`
	CustomerID       string          `json:"customerId" validate:"required,max=50"`
	Name             string          `json:"name" validate:"required,max=200"`
	Email            string          `json:"email" validate:"omitempty,email"`
	Phone            string          `json:"phone" validate:"max=50"`
	WhatsappNumber   string          `json:"whatsappNumber" validate:"max=50"`
	Address          string          `json:"address"`
	ConnectionType   *ConnectionType `json:"connectionType" validate:"omitempty,oneof=fiber wireless cable"`
	ServicePlan      string          `json:"servicePlan" validate:"max=100"`
	MonthlyFee       decimal.Decimal `json:"monthlyFee"`
	InstallationDate *time.Time      `json:"installationDate"`
	ContractEndDate  *time.Time      `json:"contractEndDate"`
	Notes            string          `json:"notes"`
	CustomFields     JSONMap         `json:"customFields"`
}

// UpdateCustomerRequest updates mutable subscriber fields
type UpdateCustomerRequest struct {
	Name            string          `json:"name" validate:"required,max=200"`
	Email           string          `json:"email" validate:"omitempty,email"`
	Phone           string          `json:"phone" validate:"max=50"`
	WhatsappNumber  string          `json:"whatsappNumber" validate:"max=50"`
	Address         string          `json:"address"`
	Status          CustomerStatus  `json:"status" validate:"required,oneof=active suspended inactive"`
	ConnectionType  *ConnectionType `json:"connectionType" validate:"omitempty,oneof=fiber wireless cable"`
	ServicePlan     string          `json:"servicePlan" validate:"max=100"`
	MonthlyFee      decimal.Decimal `json:"monthlyFee"`
	ContractEndDate *time.Time      `json:"contractEndDate"`
	Notes           string          `json:"notes"`
	CustomFields    JSONMap         `json:"customFields"`
}

// CreateEmployeeRequest registers a staff member under a company
type CreateEmployeeRequest struct {
	CompanyID      uuid.UUID       `json:"companyId" validate:"required"`
	EmployeeID     string          `json:"employeeId" validate:"required,max=50"`
	Name           string          `json:"name" validate:"required,max=200"`
	Email          string          `json:"email" validate:"required,email"`
	Phone          string          `json:"phone" validate:"max=50"`
	Address        string          `json:"address"`
	Position       string          `json:"position" validate:"required,max=100"`
	Department     string          `json:"department" validate:"max=100"`
	Salary         decimal.Decimal `json:"salary"`
	HireDate       time.Time       `json:"hireDate" validate:"required"`
	BirthDate      *time.Time      `json:"birthDate"`
	EmploymentType EmploymentType  `json:"employmentType" validate:"required,oneof=full_time part_time contract"`
	Permissions    JSONMap         `json:"permissions"`
	Notes          string          `json:"notes"`
}

// UpdateEmployeeRequest updates mutable staff fields
type UpdateEmployeeRequest struct {
	Name           string          `json:"name" validate:"required,max=200"`
	Phone          string          `json:"phone" validate:"max=50"`
	Address        string          `json:"address"`
	Position       string          `json:"position" validate:"required,max=100"`
	Department     string          `json:"department" validate:"max=100"`
	Salary         decimal.Decimal `json:"salary"`
	Status         EmployeeStatus  `json:"status" validate:"required,oneof=active inactive terminated"`
	EmploymentType EmploymentType  `json:"employmentType" validate:"required,oneof=full_time part_time contract"`
	Permissions    JSONMap         `json:"permissions"`
	Notes          string          `json:"notes"`
}

// CreateBillingRequest issues an invoice. TotalAmount is derived as
// amount + tax_amount, never accepted from the client.
type CreateBillingRequest struct {
	CompanyID     uuid.UUID       `json:"companyId" validate:"required"`
	CustomerID    uuid.UUID       `json:"customerId" validate:"required"`
	InvoiceNumber string          `json:"invoiceNumber" validate:"required,max=50"`
	BillingDate   time.Time       `json:"billingDate" validate:"required"`
	DueDate       time.Time       `json:"dueDate" validate:"required"`
	Amount        decimal.Decimal `json:"amount"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	Description   string          `json:"description"`
	LineItems     LineItems       `json:"lineItems"`
}

// UpdateBillingStatusRequest transitions an invoice's status
type UpdateBillingStatusRequest struct {
	Status        BillingStatus  `json:"status" validate:"required,oneof=pending paid overdue cancelled"`
	PaymentMethod *PaymentMethod `json:"paymentMethod" validate:"omitempty,oneof=cash bank_transfer credit_card mobile_payment"`
}

// PaginatedResponse wraps list endpoint payloads
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// HealthCheckResponse is the GET /health-check payload
type HealthCheckResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
