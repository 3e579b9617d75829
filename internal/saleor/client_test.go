package saleor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
	Auth      string         `json:"-"`
}

func newTestServer(t *testing.T, respond func(r recorded) (int, string)) (*Client, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		body, _ := io.ReadAll(req.Body)
		var rec recorded
		assert.NoError(t, json.Unmarshal(body, &rec))
		rec.Auth = req.Header.Get("Authorization")
		calls = append(calls, rec)
		status, payload := respond(rec)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL, "app-token", "Q2hhbm5lbDox", nil, WithHTTPClient(srv.Client())), &calls
}

func TestCreateDraftOrderSendsMetadataAndChannel(t *testing.T) {
	client, calls := newTestServer(t, func(recorded) (int, string) {
		return 200, `{"data":{"draftOrderCreate":{"order":{"id":"T3JkZXI6MQ==","number":"42"},"errors":[]}}}`
	})
	email := "ivan@example.com"

	ref, err := client.CreateDraftOrder(context.Background(), DraftOrderInput{
		UserEmail: &email,
		Metadata:  []MetadataItem{{Key: "stage", Value: "assigned"}},
	})
	require.NoError(t, err)
	assert.Equal(t, OrderRef{ID: "T3JkZXI6MQ==", Number: "42"}, ref)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, "Bearer app-token", call.Auth)
	assert.Contains(t, call.Query, "draftOrderCreate")
	input := call.Variables["input"].(map[string]any)
	assert.Equal(t, "Q2hhbm5lbDox", input["channelId"])
	assert.Equal(t, "ivan@example.com", input["userEmail"])
	meta := input["metadata"].([]any)
	assert.Equal(t, map[string]any{"key": "stage", "value": "assigned"}, meta[0])
}

func TestCreateDraftOrderMutationErrors(t *testing.T) {
	client, _ := newTestServer(t, func(recorded) (int, string) {
		return 200, `{"data":{"draftOrderCreate":{"order":null,"errors":[{"field":"channelId","code":"NOT_FOUND","message":"Channel missing"}]}}}`
	})

	_, err := client.CreateDraftOrder(context.Background(), DraftOrderInput{})
	var merr *MutationErrors
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, "NOT_FOUND", merr.Errors[0].Code)
	assert.Contains(t, err.Error(), "channelId: Channel missing")
}

func TestDoSurfacesTransportAndGraphQLErrors(t *testing.T) {
	client, _ := newTestServer(t, func(recorded) (int, string) {
		return 502, `bad gateway`
	})
	_, err := client.CreateDraftOrder(context.Background(), DraftOrderInput{})
	var serr *StatusError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, 502, serr.StatusCode)

	client, _ = newTestServer(t, func(recorded) (int, string) {
		return 200, `{"errors":[{"message":"You do not have permission"}]}`
	})
	_, err = client.Order(context.Background(), "x")
	var rerr *ResponseError
	require.True(t, errors.As(err, &rerr))
	assert.True(t, strings.Contains(err.Error(), "permission"))
}

func TestOrderNullIsNotFound(t *testing.T) {
	client, _ := newTestServer(t, func(recorded) (int, string) {
		return 200, `{"data":{"order":null}}`
	})
	_, err := client.Order(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrdersByMetadata(t *testing.T) {
	client, calls := newTestServer(t, func(recorded) (int, string) {
		return 200, `{"data":{"draftOrders":{"edges":[
			{"node":{"id":"o2","number":"2","created":"2026-06-02T10:00:00+00:00","total":{"gross":{"amount":0,"currency":"KGS"}},"metadata":[{"key":"stage","value":"assigned"}]}},
			{"node":{"id":"o1","number":"1","created":"2026-06-01T10:00:00+00:00","total":{"gross":{"amount":10.5,"currency":"KGS"}},"metadata":[]}}
		]}}}`
	})

	orders, err := client.OrdersByMetadata(context.Background(), "workerGroup", "Repair Workers", 25)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "o2", orders[0].ID)
	assert.Equal(t, 10.5, orders[1].Total.Amount)
	assert.Equal(t, "KGS", orders[1].Total.Currency)

	vars := (*calls)[0].Variables
	assert.Equal(t, float64(25), vars["first"])
	assert.Equal(t, []any{map[string]any{"key": "workerGroup", "value": "Repair Workers"}}, vars["metadata"])
	assert.Contains(t, (*calls)[0].Query, "CREATED_AT")
	assert.Contains(t, (*calls)[0].Query, "draftOrders(")
	assert.NotContains(t, (*calls)[0].Query, " orders(")
}

func TestCountOrdersByMetadata(t *testing.T) {
	client, calls := newTestServer(t, func(recorded) (int, string) {
		return 200, `{"data":{"draftOrders":{"totalCount":7}}}`
	})
	n, err := client.CountOrdersByMetadata(context.Background(), "workerId", "w1")
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	call := (*calls)[0]
	assert.Contains(t, call.Query, "draftOrders(")
	assert.Contains(t, call.Query, "totalCount")
	assert.Equal(t, []any{map[string]any{"key": "workerId", "value": "w1"}}, call.Variables["metadata"])
}

func TestCountOrdersByMetadataIgnoresNonDraftRoot(t *testing.T) {
	client, _ := newTestServer(t, func(recorded) (int, string) {
		return 200, `{"data":{"orders":{"totalCount":3},"draftOrders":{"totalCount":5}}}`
	})
	n, err := client.CountOrdersByMetadata(context.Background(), "workerId", "w1")
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestUpdateMetadata(t *testing.T) {
	client, calls := newTestServer(t, func(recorded) (int, string) {
		return 200, `{"data":{"updateMetadata":{"errors":[]}}}`
	})
	err := client.UpdateMetadata(context.Background(), "o1", []MetadataItem{{Key: "stage", Value: "completed"}})
	require.NoError(t, err)
	assert.Equal(t, "o1", (*calls)[0].Variables["id"])

	client, _ = newTestServer(t, func(recorded) (int, string) {
		return 200, `{"data":{"updateMetadata":{"errors":[{"field":"id","code":"NOT_FOUND","message":"nope"}]}}}`
	})
	err = client.UpdateMetadata(context.Background(), "o1", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPermissionGroupMembersExactName(t *testing.T) {
	client, _ := newTestServer(t, func(recorded) (int, string) {
		return 200, `{"data":{"permissionGroups":{"edges":[
			{"node":{"name":"Repair Workers Archive","users":[{"id":"old","email":"old@example.com","isActive":false}]}},
			{"node":{"name":"Repair Workers","users":[
				{"id":"u1","email":"a@example.com","firstName":"Aibek","lastName":"T","isActive":true},
				{"id":"u2","email":"b@example.com","firstName":"","lastName":"","isActive":true}
			]}}
		]}}}`
	})

	users, err := client.PermissionGroupMembers(context.Background(), "Repair Workers")
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "u1", users[0].ID)
	assert.Equal(t, "Aibek T", users[0].DisplayName())
	assert.Equal(t, "b@example.com", users[1].DisplayName())

	_, err = client.PermissionGroupMembers(context.Background(), "Nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}
