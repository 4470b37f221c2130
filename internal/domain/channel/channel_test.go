package channel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/magento-sync/internal/domain/magento"
)

func testCredentials() magento.Credentials {
	return magento.Credentials{
		URL:     "https://shop.example.com/index.php/api/xmlrpc",
		APIUser: "api_user",
		APIKey:  "api_key",
	}
}

func TestNewChannel(t *testing.T) {
	ch, err := NewChannel("Webshop DE", testCredentials(), "MGN-", "unit")

	require.NoError(t, err)
	assert.Equal(t, "Webshop DE", ch.Name)
	assert.Equal(t, "MGN-", ch.OrderPrefix)
	assert.Equal(t, "unit", ch.DefaultUnit)
	assert.NotEmpty(t, ch.StateMap)
}

func TestNewChannel_Validation(t *testing.T) {
	_, err := NewChannel("", testCredentials(), "", "unit")
	assert.Error(t, err)

	_, err = NewChannel("Webshop", magento.Credentials{URL: "https://shop.example.com"}, "", "unit")
	assert.Error(t, err)
}

func TestNewChannel_DefaultUnitFallback(t *testing.T) {
	ch, err := NewChannel("Webshop", testCredentials(), "", "")

	require.NoError(t, err)
	assert.Equal(t, "unit", ch.DefaultUnit)
}

func TestChannel_Credentials(t *testing.T) {
	creds := testCredentials()
	ch, err := NewChannel("Webshop", creds, "", "unit")
	require.NoError(t, err)

	assert.Equal(t, creds, ch.Credentials())
}

func TestChannel_WorkflowActionFor(t *testing.T) {
	ch, err := NewChannel("Webshop", testCredentials(), "", "unit")
	require.NoError(t, err)

	wa := ch.WorkflowActionFor("new")
	assert.Equal(t, ActionConfirm, wa.Action)
	assert.Equal(t, ShipmentMethodOnOrder, wa.ShipmentMethod)

	wa = ch.WorkflowActionFor("processing")
	assert.Equal(t, ActionProcess, wa.Action)
	assert.Equal(t, InvoiceMethodOnOrder, wa.InvoiceMethod)

	wa = ch.WorkflowActionFor("cancelled")
	assert.Equal(t, ActionDoNotImport, wa.Action)
}

func TestChannel_WorkflowActionFor_UnknownState(t *testing.T) {
	ch, err := NewChannel("Webshop", testCredentials(), "", "unit")
	require.NoError(t, err)

	// Unknown remote states must never create local records
	wa := ch.WorkflowActionFor("payment_review")
	assert.Equal(t, ActionDoNotImport, wa.Action)
	assert.Equal(t, InvoiceMethodManual, wa.InvoiceMethod)
	assert.Equal(t, ShipmentMethodManual, wa.ShipmentMethod)
}

func TestChannel_WorkflowActionFor_NilStateMap(t *testing.T) {
	ch := &Channel{}

	wa := ch.WorkflowActionFor("new")
	assert.Equal(t, ActionDoNotImport, wa.Action)
}

func TestChannel_SetWorkflowAction(t *testing.T) {
	ch, err := NewChannel("Webshop", testCredentials(), "", "unit")
	require.NoError(t, err)

	err = ch.SetWorkflowAction("fraud", WorkflowAction{
		Action:         ActionImportAsDraft,
		InvoiceMethod:  InvoiceMethodManual,
		ShipmentMethod: ShipmentMethodManual,
	})

	require.NoError(t, err)
	assert.Equal(t, ActionImportAsDraft, ch.WorkflowActionFor("fraud").Action)
}

func TestChannel_SetWorkflowAction_InvalidAction(t *testing.T) {
	ch, err := NewChannel("Webshop", testCredentials(), "", "unit")
	require.NoError(t, err)

	err = ch.SetWorkflowAction("fraud", WorkflowAction{Action: Action("reject")})

	assert.Error(t, err)
}

func TestAction_IsValid(t *testing.T) {
	assert.True(t, ActionDoNotImport.IsValid())
	assert.True(t, ActionProcess.IsValid())
	assert.False(t, Action("archive").IsValid())
}

func TestDefaultStateMap(t *testing.T) {
	m := DefaultStateMap()

	assert.Equal(t, ActionConfirm, m["new"].Action)
	assert.Equal(t, ActionImportAsDraft, m["pending"].Action)
	assert.Equal(t, ActionImportAsDraft, m["pending_payment"].Action)
	assert.Equal(t, ActionProcess, m["processing"].Action)
	assert.Equal(t, ActionProcess, m["complete"].Action)
	assert.Equal(t, ActionDoNotImport, m["cancelled"].Action)
	assert.Equal(t, ActionDoNotImport, m["holded"].Action)
}
