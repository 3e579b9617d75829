package transport

import (
	"errors"
	"strings"
	"testing"

	"repair_portal_backend/internal/repairs/domain"
	"repair_portal_backend/platform/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var gateOpts = GateOptions{PhoneRegion: "KG"}

func parse(t *testing.T, body string) (domain.RepairServiceRequest, error) {
	t.Helper()
	return ParseServiceRequest([]byte(body), validator.New(), gateOpts)
}

func issuePaths(t *testing.T, err error) []string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	paths := make([]string, 0, len(verr.Issues))
	for _, issue := range verr.Issues {
		paths = append(paths, issue.Path)
	}
	return paths
}

func TestParseServiceRequestMinimalCyrillic(t *testing.T) {
	req, err := parse(t, `{"fullName":"Иван Иванов","phone":"+996555123456","deviceType":"laptop","serviceSlug":"screen-repair","consent":true}`)
	require.NoError(t, err)

	assert.Equal(t, "Иван Иванов", req.FullName)
	assert.Equal(t, "+996555123456", req.Phone)
	assert.Equal(t, "laptop", req.DeviceType)
	assert.Equal(t, "screen-repair", req.ServiceSlug)
	assert.True(t, req.Consent)
	assert.False(t, req.Urgent)
	assert.False(t, req.NeedsPickup)
	assert.Nil(t, req.Email)
	assert.Nil(t, req.PriceEstimate)
	assert.NotNil(t, req.Modifiers)
	assert.Empty(t, req.Modifiers)
}

func TestParseServiceRequestSnakeCaseAliases(t *testing.T) {
	req, err := parse(t, `{
		"full_name":"Ann Lee","phone":"+996 555 123 456","device_type":"phone",
		"service_slug":"battery","needs_pickup":true,"preferred_contact":"email",
		"email":"ann@example.com","price_estimate":{"min":100,"max":null,"currency":"usd"}
	}`)
	require.NoError(t, err)

	assert.Equal(t, "Ann Lee", req.FullName)
	assert.Equal(t, "+996555123456", req.Phone)
	assert.Equal(t, "battery", req.ServiceSlug)
	assert.True(t, req.NeedsPickup)
	require.NotNil(t, req.PreferredContact)
	assert.Equal(t, domain.ContactEmail, *req.PreferredContact)
	require.NotNil(t, req.PriceEstimate)
	assert.Equal(t, 100.0, *req.PriceEstimate.Min)
	assert.Nil(t, req.PriceEstimate.Max)
	assert.Equal(t, "USD", req.PriceEstimate.Currency)
}

func TestParseServiceRequestCamelCaseWinsOverAlias(t *testing.T) {
	req, err := parse(t, `{"fullName":"Camel Case","full_name":"Snake Case","phone":"+996555123456","deviceType":"tv","serviceSlug":"panel"}`)
	require.NoError(t, err)
	assert.Equal(t, "Camel Case", req.FullName)
}

func TestParseServiceRequestMalformedJSON(t *testing.T) {
	for _, body := range []string{``, `{`, `not json`, `[1,2]`, `"string"`, `null`, `{"fullName":}`} {
		t.Run(body, func(t *testing.T) {
			_, err := parse(t, body)
			assert.ErrorIs(t, err, ErrMalformedJSON)
		})
	}
}

func TestParseServiceRequestRuleViolations(t *testing.T) {
	_, err := parse(t, `{"fullName":"A","phone":"123","deviceType":"x","serviceSlug":"s","email":"nope","preferredContact":"fax","priceEstimate":{"currency":"EURO"}}`)

	paths := issuePaths(t, err)
	assert.ElementsMatch(t, []string{
		"fullName", "phone", "deviceType", "serviceSlug", "email", "preferredContact", "priceEstimate.currency",
	}, paths)
}

func TestParseServiceRequestMissingRequired(t *testing.T) {
	_, err := parse(t, `{}`)
	assert.ElementsMatch(t, []string{"fullName", "phone", "deviceType", "serviceSlug"}, issuePaths(t, err))
}

func TestParseServiceRequestTypeMismatches(t *testing.T) {
	_, err := parse(t, `{"fullName":42,"phone":"+996555123456","deviceType":"laptop","serviceSlug":"screen-repair","urgent":"yes","modifiers":{"express":"fast","oem":2}}`)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"fullName", "urgent", "modifiers.express"}, issuePaths(t, err))
	assert.Equal(t, "must be a string", verr.Issues[0].Message)
	assert.Equal(t, "must be a boolean", verr.Issues[1].Message)
	assert.Equal(t, "must be a number", verr.Issues[2].Message)
}

func TestParseServiceRequestModifiersMustBeObject(t *testing.T) {
	_, err := parse(t, `{"fullName":"Ann Lee","phone":"+996555123456","deviceType":"tv","serviceSlug":"panel","modifiers":[1]}`)
	assert.Equal(t, []string{"modifiers"}, issuePaths(t, err))
}

func TestParseServiceRequestEmptyEmailIsAbsent(t *testing.T) {
	req, err := parse(t, `{"fullName":"Ann Lee","phone":"+996555123456","deviceType":"tv","serviceSlug":"panel","email":"   "}`)
	require.NoError(t, err)
	assert.Nil(t, req.Email)
}

func TestParseServiceRequestMessageRules(t *testing.T) {
	req, err := parse(t, `{"fullName":"Ann Lee","phone":"+996555123456","deviceType":"tv","serviceSlug":"panel","message":"<b>Screen</b> flickers"}`)
	require.NoError(t, err)
	require.NotNil(t, req.Message)
	assert.Equal(t, "Screen flickers", *req.Message)

	long := strings.Repeat("я", 2001)
	_, err = parse(t, `{"fullName":"Ann Lee","phone":"+996555123456","deviceType":"tv","serviceSlug":"panel","message":"`+long+`"}`)
	assert.Equal(t, []string{"message"}, issuePaths(t, err))
}

func TestParseServiceRequestMessageKeepsComparisons(t *testing.T) {
	req, err := parse(t, `{"fullName":"Ann Lee","phone":"+996555123456","deviceType":"laptop","serviceSlug":"battery","message":"battery < 20% after 1h, fan noise > normal"}`)
	require.NoError(t, err)
	require.NotNil(t, req.Message)
	assert.Equal(t, "battery < 20% after 1h, fan noise > normal", *req.Message)
}

func TestParseServiceRequestLengthCountsCharacters(t *testing.T) {
	name := strings.Repeat("Ж", 120)
	req, err := parse(t, `{"fullName":"`+name+`","phone":"+996555123456","deviceType":"tv","serviceSlug":"panel"}`)
	require.NoError(t, err)
	assert.Equal(t, name, req.FullName)
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Issues: []validator.Issue{{Path: "phone", Message: "is required"}}}
	assert.Equal(t, "validation failed: phone: is required", err.Error())
}
