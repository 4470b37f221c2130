package channel

import (
	"github.com/erp/magento-sync/internal/domain/magento"
	"github.com/erp/magento-sync/internal/domain/shared"
)

// Action is the local workflow action a remote order state maps to
type Action string

const (
	// ActionDoNotImport marks remote states whose orders are deliberately
	// skipped (e.g. cancelled or pending-review orders).
	ActionDoNotImport Action = "do_not_import"
	// ActionImportAsDraft imports the order and leaves it in draft
	ActionImportAsDraft Action = "import_as_draft"
	// ActionConfirm imports the order and confirms it
	ActionConfirm Action = "confirm"
	// ActionProcess imports the order, confirms it and moves it to
	// processing
	ActionProcess Action = "process"
)

// IsValid returns true if the action is a known workflow action
func (a Action) IsValid() bool {
	switch a {
	case ActionDoNotImport, ActionImportAsDraft, ActionConfirm, ActionProcess:
		return true
	}
	return false
}

// String returns the string representation of Action
func (a Action) String() string {
	return string(a)
}

// InvoiceMethod determines how invoices are raised for an imported sale
type InvoiceMethod string

const (
	InvoiceMethodManual   InvoiceMethod = "manual"
	InvoiceMethodOnOrder  InvoiceMethod = "order"
	InvoiceMethodShipment InvoiceMethod = "shipment"
)

// ShipmentMethod determines how shipments are raised for an imported sale
type ShipmentMethod string

const (
	// ShipmentMethodManual is the no-op mode used for orders without a
	// physical shipment (digital delivery).
	ShipmentMethodManual  ShipmentMethod = "manual"
	ShipmentMethodOnOrder ShipmentMethod = "order"
	ShipmentMethodInvoice ShipmentMethod = "invoice"
)

// WorkflowAction is the triple a remote order state resolves to
type WorkflowAction struct {
	Action         Action
	InvoiceMethod  InvoiceMethod
	ShipmentMethod ShipmentMethod
}

// Channel is a configured connection to one Magento storefront instance.
// It carries the API credentials, the order-number prefix and the mapping
// from remote order states to local workflow actions.
type Channel struct {
	shared.BaseAggregateRoot
	Name           string
	MagentoURL     string
	MagentoAPIUser string
	MagentoAPIKey  string
	OrderPrefix    string
	DefaultUnit    string
	StateMap       map[string]WorkflowAction `gorm:"serializer:json"`
}

// TableName returns the table name for GORM
func (Channel) TableName() string {
	return "channels"
}

// NewChannel creates a channel with the given connection settings
func NewChannel(name string, creds magento.Credentials, orderPrefix, defaultUnit string) (*Channel, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CHANNEL_NAME", "Channel name cannot be empty")
	}
	if err := creds.Validate(); err != nil {
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", err.Error())
	}
	if defaultUnit == "" {
		defaultUnit = "unit"
	}

	return &Channel{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		MagentoURL:        creds.URL,
		MagentoAPIUser:    creds.APIUser,
		MagentoAPIKey:     creds.APIKey,
		OrderPrefix:       orderPrefix,
		DefaultUnit:       defaultUnit,
		StateMap:          DefaultStateMap(),
	}, nil
}

// Credentials returns the Magento API credentials for this channel
func (c *Channel) Credentials() magento.Credentials {
	return magento.Credentials{
		URL:     c.MagentoURL,
		APIUser: c.MagentoAPIUser,
		APIKey:  c.MagentoAPIKey,
	}
}

// WorkflowActionFor resolves a remote order state to its local workflow
// action. Unknown states resolve to do-not-import so that unexpected remote
// states never create local records.
func (c *Channel) WorkflowActionFor(remoteState string) WorkflowAction {
	if c.StateMap != nil {
		if wa, ok := c.StateMap[remoteState]; ok {
			return wa
		}
	}
	return WorkflowAction{
		Action:         ActionDoNotImport,
		InvoiceMethod:  InvoiceMethodManual,
		ShipmentMethod: ShipmentMethodManual,
	}
}

// SetWorkflowAction overrides the mapping for a single remote state
func (c *Channel) SetWorkflowAction(remoteState string, wa WorkflowAction) error {
	if !wa.Action.IsValid() {
		return shared.NewDomainError("INVALID_ACTION", "Unknown workflow action")
	}
	if c.StateMap == nil {
		c.StateMap = make(map[string]WorkflowAction)
	}
	c.StateMap[remoteState] = wa
	return nil
}

// DefaultStateMap returns the stock Magento state mapping. Cancelled and
// holded orders are skipped; new orders import as confirmed drafts; paid
// orders are processed.
func DefaultStateMap() map[string]WorkflowAction {
	return map[string]WorkflowAction{
		"new": {
			Action:         ActionConfirm,
			InvoiceMethod:  InvoiceMethodManual,
			ShipmentMethod: ShipmentMethodOnOrder,
		},
		"pending": {
			Action:         ActionImportAsDraft,
			InvoiceMethod:  InvoiceMethodManual,
			ShipmentMethod: ShipmentMethodOnOrder,
		},
		"pending_payment": {
			Action:         ActionImportAsDraft,
			InvoiceMethod:  InvoiceMethodManual,
			ShipmentMethod: ShipmentMethodOnOrder,
		},
		"processing": {
			Action:         ActionProcess,
			InvoiceMethod:  InvoiceMethodOnOrder,
			ShipmentMethod: ShipmentMethodOnOrder,
		},
		"complete": {
			Action:         ActionProcess,
			InvoiceMethod:  InvoiceMethodOnOrder,
			ShipmentMethod: ShipmentMethodOnOrder,
		},
		"cancelled": {
			Action:         ActionDoNotImport,
			InvoiceMethod:  InvoiceMethodManual,
			ShipmentMethod: ShipmentMethodManual,
		},
		"holded": {
			Action:         ActionDoNotImport,
			InvoiceMethod:  InvoiceMethodManual,
			ShipmentMethod: ShipmentMethodManual,
		},
	}
}
