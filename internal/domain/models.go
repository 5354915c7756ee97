package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// BeforeCreate assigns the UUID in application code so the same models
// work against both PostgreSQL and the SQLite test database.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// JSONMap is an opaque key-value map stored as a JSON column
type JSONMap map[string]interface{}

// Value implements driver.Valuer
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported type for JSONMap: %T", value)
	}
}

// CompanyType distinguishes the parent operator from its tenants
type CompanyType string

const (
	CompanyTypeParent CompanyType = "parent"
	CompanyTypeTenant CompanyType = "tenant"
)

// Company is the root of the multi-tenant ownership tree. Every other
// business entity belongs to exactly one company.
type Company struct {
	BaseModel
	Name     string      `gorm:"type:varchar(200);not null" json:"name"`
	Slug     string      `gorm:"type:varchar(200);uniqueIndex;not null" json:"slug"`
	Email    string      `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone    string      `gorm:"type:varchar(50)" json:"phone,omitempty"`
	Address  string      `gorm:"type:text" json:"address,omitempty"`
	Logo     string      `gorm:"type:varchar(500)" json:"logo,omitempty"`
	Type     CompanyType `gorm:"type:varchar(20);not null;default:'tenant';index" json:"type"`
	ParentID *uuid.UUID  `gorm:"type:uuid;column:parent_id;index" json:"parentId,omitempty"`
	Parent   *Company    `gorm:"foreignKey:ParentID" json:"-"`
	Children []Company   `gorm:"foreignKey:ParentID" json:"-"`
	IsActive bool        `gorm:"not null;default:true;column:is_active;index" json:"isActive"`
	Settings JSONMap     `gorm:"type:json" json:"settings,omitempty"`

	Devices   []Device   `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"devices,omitempty"`
	Customers []Customer `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"customers,omitempty"`
	Employees []Employee `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"employees,omitempty"`
	Billings  []Billing  `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"-"`
	Users     []User     `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsParent reports whether this company sits at the root of the tree
func (c *Company) IsParent() bool {
	return c.Type == CompanyTypeParent
}

// DeviceType selects the metric generator used when monitoring a device
type DeviceType string

const (
	DeviceTypeRouter DeviceType = "router"
	DeviceTypeOLT    DeviceType = "olt"
	DeviceTypeTR069  DeviceType = "tr069"
	DeviceTypeSSH    DeviceType = "ssh"
	DeviceTypeSNMP   DeviceType = "snmp"
	DeviceTypeOther  DeviceType = "other"
)

// DeviceStatus is the derived health state written back by monitoring
type DeviceStatus string

const (
	DeviceStatusOnline      DeviceStatus = "online"
	DeviceStatusOffline     DeviceStatus = "offline"
	DeviceStatusMaintenance DeviceStatus = "maintenance"
)

// Device is a piece of monitored network equipment owned by one company.
// Credential fields are hidden from every serialized representation.
type Device struct {
	BaseModel
	CompanyID        uuid.UUID    `gorm:"type:uuid;not null;index;column:company_id" json:"companyId"`
	Company          *Company     `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Name             string       `gorm:"type:varchar(200);not null" json:"name"`
	Type             DeviceType   `gorm:"type:varchar(50);not null;index" json:"type"`
	Brand            string       `gorm:"type:varchar(100)" json:"brand,omitempty"`
	Model            string       `gorm:"type:varchar(100)" json:"model,omitempty"`
	IPAddress        string       `gorm:"type:varchar(45);not null;column:ip_address;index" json:"ipAddress"`
	Port             int          `gorm:"not null;default:22" json:"port"`
	Username         string       `gorm:"type:varchar(100)" json:"-"`
	Password         string       `gorm:"type:varchar(255)" json:"-"`
	CommunityString  string       `gorm:"type:varchar(100);column:community_string" json:"-"`
	Status           DeviceStatus `gorm:"type:varchar(20);not null;default:'offline';index" json:"status"`
	LastSeen         *time.Time   `gorm:"column:last_seen" json:"lastSeen,omitempty"`
	Latitude         *float64     `gorm:"type:decimal(10,8)" json:"latitude,omitempty"`
	Longitude        *float64     `gorm:"type:decimal(11,8)" json:"longitude,omitempty"`
	Description      string       `gorm:"type:text" json:"description,omitempty"`
	MonitoringConfig JSONMap      `gorm:"type:json;column:monitoring_config" json:"monitoringConfig,omitempty"`
	LastMetrics      JSONMap      `gorm:"type:json;column:last_metrics" json:"lastMetrics,omitempty"`
	IsActive         bool         `gorm:"not null;default:true;column:is_active" json:"isActive"`
}

// CustomerStatus represents the service state of a subscriber
type CustomerStatus string

const (
	CustomerStatusActive    CustomerStatus = "active"
	CustomerStatusSuspended CustomerStatus = "suspended"
	CustomerStatusInactive  CustomerStatus = "inactive"
)

// ConnectionType is the physical delivery medium for a subscriber
type ConnectionType string

const (
	ConnectionTypeFiber    ConnectionType = "fiber"
	ConnectionTypeWireless ConnectionType = "wireless"
	ConnectionTypeCable    ConnectionType = "cable"
)

// Customer is a subscriber of one company
type Customer struct {
	BaseModel
	CompanyID        uuid.UUID       `gorm:"type:uuid;not null;index;column:company_id" json:"companyId"`
	Company          *Company        `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	CustomerID       string          `gorm:"type:varchar(50);uniqueIndex;not null;column:customer_id" json:"customerId"`
	Name             string          `gorm:"type:varchar(200);not null" json:"name"`
	Email            string          `gorm:"type:varchar(255);index" json:"email,omitempty"`
	Phone            string          `gorm:"type:varchar(50);index" json:"phone,omitempty"`
	WhatsappNumber   string          `gorm:"type:varchar(50);column:whatsapp_number" json:"whatsappNumber,omitempty"`
	Address          string          `gorm:"type:text" json:"address,omitempty"`
	Latitude         *float64        `gorm:"type:decimal(10,8)" json:"latitude,omitempty"`
	Longitude        *float64        `gorm:"type:decimal(11,8)" json:"longitude,omitempty"`
	Status           CustomerStatus  `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	ConnectionType   *ConnectionType `gorm:"type:varchar(20);column:connection_type" json:"connectionType,omitempty"`
	ServicePlan      string          `gorm:"type:varchar(100);column:service_plan" json:"servicePlan,omitempty"`
	MonthlyFee       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0;column:monthly_fee" json:"monthlyFee"`
	InstallationDate *time.Time      `gorm:"type:date;column:installation_date" json:"installationDate,omitempty"`
	ContractEndDate  *time.Time      `gorm:"type:date;column:contract_end_date" json:"contractEndDate,omitempty"`
	Notes            string          `gorm:"type:text" json:"notes,omitempty"`
	CustomFields     JSONMap         `gorm:"type:json;column:custom_fields" json:"customFields,omitempty"`
}

// EmployeeStatus represents the employment state
type EmployeeStatus string

const (
	EmployeeStatusActive     EmployeeStatus = "active"
	EmployeeStatusInactive   EmployeeStatus = "inactive"
	EmployeeStatusTerminated EmployeeStatus = "terminated"
)

// EmploymentType classifies the contract form
type EmploymentType string

const (
	EmploymentTypeFullTime EmploymentType = "full_time"
	EmploymentTypePartTime EmploymentType = "part_time"
	EmploymentTypeContract EmploymentType = "contract"
)

// Employee is a staff member of one company
type Employee struct {
	BaseModel
	CompanyID      uuid.UUID       `gorm:"type:uuid;not null;index;column:company_id" json:"companyId"`
	Company        *Company        `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	EmployeeID     string          `gorm:"type:varchar(50);uniqueIndex;not null;column:employee_id" json:"employeeId"`
	Name           string          `gorm:"type:varchar(200);not null" json:"name"`
	Email          string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone          string          `gorm:"type:varchar(50)" json:"phone,omitempty"`
	Address        string          `gorm:"type:text" json:"address,omitempty"`
	Position       string          `gorm:"type:varchar(100);not null" json:"position"`
	Department     string          `gorm:"type:varchar(100);index" json:"department,omitempty"`
	Salary         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"salary"`
	HireDate       time.Time       `gorm:"type:date;not null;column:hire_date" json:"hireDate"`
	BirthDate      *time.Time      `gorm:"type:date;column:birth_date" json:"birthDate,omitempty"`
	Status         EmployeeStatus  `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	EmploymentType EmploymentType  `gorm:"type:varchar(20);not null;default:'full_time';column:employment_type" json:"employmentType"`
	Permissions    JSONMap         `gorm:"type:json" json:"permissions,omitempty"`
	Notes          string          `gorm:"type:text" json:"notes,omitempty"`
}

// BillingStatus is the lifecycle state of an invoice
type BillingStatus string

const (
	BillingStatusPending   BillingStatus = "pending"
	BillingStatusPaid      BillingStatus = "paid"
	BillingStatusOverdue   BillingStatus = "overdue"
	BillingStatusCancelled BillingStatus = "cancelled"
)

// PaymentMethod records how a paid invoice was settled
type PaymentMethod string

const (
	PaymentMethodCash          PaymentMethod = "cash"
	PaymentMethodBankTransfer  PaymentMethod = "bank_transfer"
	PaymentMethodCreditCard    PaymentMethod = "credit_card"
	PaymentMethodMobilePayment PaymentMethod = "mobile_payment"
)

// LineItem is one row on an invoice
type LineItem struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// LineItems is an ordered sequence of invoice rows stored as JSON
type LineItems []LineItem

// Value implements driver.Valuer
func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner
func (l *LineItems) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for LineItems: %T", value)
	}
}

// Billing is an invoice issued by a company to one of its own customers.
// Cross-company customer references are invalid.
type Billing struct {
	BaseModel
	CompanyID     uuid.UUID       `gorm:"type:uuid;not null;index;column:company_id" json:"companyId"`
	Company       *Company        `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index;column:customer_id" json:"customerId"`
	Customer      *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	InvoiceNumber string          `gorm:"type:varchar(50);uniqueIndex;not null;column:invoice_number" json:"invoiceNumber"`
	BillingDate   time.Time       `gorm:"type:date;not null;column:billing_date;index" json:"billingDate"`
	DueDate       time.Time       `gorm:"type:date;not null;column:due_date;index" json:"dueDate"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0;column:tax_amount" json:"taxAmount"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(10,2);not null;column:total_amount" json:"totalAmount"`
	Status        BillingStatus   `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PaymentMethod *PaymentMethod  `gorm:"type:varchar(20);column:payment_method" json:"paymentMethod,omitempty"`
	PaidAt        *time.Time      `gorm:"column:paid_at" json:"paidAt,omitempty"`
	Description   string          `gorm:"type:text" json:"description,omitempty"`
	LineItems     LineItems       `gorm:"type:json;column:line_items" json:"lineItems,omitempty"`
}

// TableName matches the original schema
func (Billing) TableName() string {
	return "billings"
}

// UserRole drives tenant scoping: super_admin is unscoped, every other
// role is clamped to the user's single company.
type UserRole string

const (
	RoleSuperAdmin UserRole = "super_admin"
	RoleAdmin      UserRole = "admin"
	RoleManager    UserRole = "manager"
	RoleTechnician UserRole = "technician"
	RoleUser       UserRole = "user"
)

// User is an operator account. CompanyID is nil for super admins.
type User struct {
	BaseModel
	CompanyID    *uuid.UUID `gorm:"type:uuid;column:company_id;index" json:"companyId,omitempty"`
	Company      *Company   `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Name         string     `gorm:"type:varchar(200);not null" json:"name"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null;column:password_hash" json:"-"`
	Role         UserRole   `gorm:"type:varchar(20);not null;default:'user';index" json:"role"`
	Permissions  JSONMap    `gorm:"type:json" json:"permissions,omitempty"`
	IsActive     bool       `gorm:"not null;default:true;column:is_active" json:"isActive"`
}

// IsSuperAdmin reports whether the user has unscoped read access
func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

// ScheduledTaskStatus is the state of a persisted task definition
type ScheduledTaskStatus string

const (
	ScheduledTaskStatusActive   ScheduledTaskStatus = "active"
	ScheduledTaskStatusInactive ScheduledTaskStatus = "inactive"
	ScheduledTaskStatusRunning  ScheduledTaskStatus = "running"
)

// ScheduledTask is persisted intent for a task executor that does not
// exist yet. Rows are kept as forward-compatible configuration; nothing
// in this service consumes them.
type ScheduledTask struct {
	BaseModel
	CompanyID      uuid.UUID           `gorm:"type:uuid;not null;index;column:company_id" json:"companyId"`
	Company        *Company            `gorm:"foreignKey:CompanyID" json:"-"`
	Name           string              `gorm:"type:varchar(200);not null" json:"name"`
	Type           string              `gorm:"type:varchar(50);not null;index" json:"type"`
	Frequency      string              `gorm:"type:varchar(50);not null" json:"frequency"`
	CronExpression string              `gorm:"type:varchar(100);column:cron_expression" json:"cronExpression,omitempty"`
	NextRun        *time.Time          `gorm:"column:next_run;index" json:"nextRun,omitempty"`
	LastRun        *time.Time          `gorm:"column:last_run" json:"lastRun,omitempty"`
	Status         ScheduledTaskStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	Parameters     JSONMap             `gorm:"type:json" json:"parameters,omitempty"`
	Results        JSONMap             `gorm:"type:json" json:"results,omitempty"`
	Description    string              `gorm:"type:text" json:"description,omitempty"`
}

// CommunicationChannel is the delivery channel for a customer message
type CommunicationChannel string

const (
	ChannelWhatsapp CommunicationChannel = "whatsapp"
	ChannelSMS      CommunicationChannel = "sms"
	ChannelEmail    CommunicationChannel = "email"
	ChannelVoice    CommunicationChannel = "voice"
)

// CommunicationStatus is the delivery state of a logged message
type CommunicationStatus string

const (
	CommunicationStatusPending   CommunicationStatus = "pending"
	CommunicationStatusSent      CommunicationStatus = "sent"
	CommunicationStatusDelivered CommunicationStatus = "delivered"
	CommunicationStatusFailed    CommunicationStatus = "failed"
)

// CommunicationLog records an outbound customer message. Like
// ScheduledTask it is schema-only; no dispatcher produces these rows.
type CommunicationLog struct {
	BaseModel
	CompanyID    uuid.UUID            `gorm:"type:uuid;not null;index;column:company_id" json:"companyId"`
	Company      *Company             `gorm:"foreignKey:CompanyID" json:"-"`
	CustomerID   *uuid.UUID           `gorm:"type:uuid;column:customer_id;index" json:"customerId,omitempty"`
	Customer     *Customer            `gorm:"foreignKey:CustomerID" json:"-"`
	Channel      CommunicationChannel `gorm:"type:varchar(20);not null;default:'whatsapp';index" json:"channel"`
	Recipient    string               `gorm:"type:varchar(255);not null" json:"recipient"`
	Message      string               `gorm:"type:text;not null" json:"message"`
	Status       CommunicationStatus  `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	SentAt       *time.Time           `gorm:"column:sent_at;index" json:"sentAt,omitempty"`
	DeliveredAt  *time.Time           `gorm:"column:delivered_at" json:"deliveredAt,omitempty"`
	Metadata     JSONMap              `gorm:"type:json" json:"metadata,omitempty"`
	ExternalID   string               `gorm:"type:varchar(100);column:external_id" json:"externalId,omitempty"`
	ErrorMessage string               `gorm:"type:text;column:error_message" json:"errorMessage,omitempty"`
}
