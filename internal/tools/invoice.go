package tools

import (
	"context"

	"github.com/google/uuid"
)

const InvoiceParserToolName = "invoice-parser"

// LineItem is one order line. ID is generated when the model omits it.
type LineItem struct {
	ID       string  `json:"id,omitempty" jsonschema_description:"Unique identifier for the line item"`
	Name     string  `json:"name" jsonschema_description:"Name or description of the line item"`
	Quantity int     `json:"quantity" jsonschema:"exclusiveMinimum=0" jsonschema_description:"Quantity of the line item"`
	Price    float64 `json:"price" jsonschema:"exclusiveMinimum=0" jsonschema_description:"Price per unit of the line item"`
}

type ShippingAddress struct {
	Name   string `json:"name" jsonschema_description:"Name of the recipient"`
	Street string `json:"street" jsonschema_description:"Street address for shipping"`
	City   string `json:"city" jsonschema_description:"City for shipping"`
	State  string `json:"state" jsonschema_description:"State or province for shipping"`
	Zip    string `json:"zip" jsonschema_description:"ZIP or postal code for shipping"`
}

type CustomerInfo struct {
	Name  string  `json:"name" jsonschema_description:"Name of the customer"`
	Email string  `json:"email" jsonschema_description:"Email address of the customer"`
	Phone *string `json:"phone,omitempty" jsonschema_description:"Phone number of the customer"`
}

type PaymentInfo struct {
	CardType           string `json:"cardType" jsonschema_description:"Type of credit card used for payment"`
	CardNumberLastFour string `json:"cardNumberLastFour" jsonschema_description:"Last four digits of the credit card number"`
}

// Invoice is both the invoice-parser argument schema and its result.
type Invoice struct {
	OrderID         string           `json:"orderId" jsonschema_description:"The order ID"`
	LineItems       []LineItem       `json:"lineItems" jsonschema_description:"List of line items in the invoice"`
	ShippingAddress *ShippingAddress `json:"shippingAddress,omitempty" jsonschema_description:"Shipping address for the order"`
	CustomerInfo    *CustomerInfo    `json:"customerInfo,omitempty" jsonschema_description:"Information about the customer"`
	PaymentInfo     *PaymentInfo     `json:"paymentInfo,omitempty" jsonschema_description:"Payment information for the order"`
}

// InvoiceParserTool returns the validated invoice unchanged apart from
// generated line item IDs. It performs no I/O.
type InvoiceParserTool struct {
	newID  func() string
	schema *Schema
}

func NewInvoiceParserTool() *InvoiceParserTool {
	return &InvoiceParserTool{
		newID:  uuid.NewString,
		schema: MustSchemaFor(&Invoice{}),
	}
}

func (t *InvoiceParserTool) Name() string { return InvoiceParserToolName }
func (t *InvoiceParserTool) Description() string {
	return "Parse an invoice and return it without modification."
}
func (t *InvoiceParserTool) Schema() *Schema { return t.schema }

func (t *InvoiceParserTool) Invoke(_ context.Context, args map[string]any) (any, error) {
	var in Invoice
	if err := bindArgs(t.schema, t.Name(), args, &in); err != nil {
		return nil, err
	}
	return t.Parse(in), nil
}

// Parse copies in, filling empty line item IDs.
func (t *InvoiceParserTool) Parse(in Invoice) Invoice {
	out := in
	out.LineItems = make([]LineItem, len(in.LineItems))
	for i, item := range in.LineItems {
		if item.ID == "" {
			item.ID = t.newID()
		}
		out.LineItems[i] = item
	}
	return out
}
