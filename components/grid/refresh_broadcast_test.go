package grid

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastHookSubscribe(t *testing.T) {
	hook := NewBroadcastHook()
	ch, cancel := hook.Subscribe()
	defer cancel()
	event := TableEvent{Table: TableProducts, RowID: "1", Reason: "remove"}
	if err := hook.TableUpdated(context.Background(), event); err != nil {
		t.Fatalf("TableUpdated returned error: %v", err)
	}
	select {
	case e := <-ch:
		if e != event {
			t.Fatalf("expected %+v, got %+v", event, e)
		}
	default:
		t.Fatalf("expected event to be delivered")
	}
}

func TestBroadcastHookFiltersByTable(t *testing.T) {
	hook := NewBroadcastHook()
	sales, cancelSales := hook.SubscribeTable(TableSales)
	defer cancelSales()

	require.NoError(t, hook.TableUpdated(context.Background(), TableEvent{Table: TableProducts, Reason: "add"}))
	require.NoError(t, hook.TableUpdated(context.Background(), TableEvent{Table: TableSales, Reason: "add"}))

	select {
	case e := <-sales:
		assert.Equal(t, TableSales, e.Table)
	default:
		t.Fatalf("expected sales event")
	}
	select {
	case e := <-sales:
		t.Fatalf("unexpected event %+v", e)
	default:
	}
}

func TestBroadcastHookCancelClosesChannel(t *testing.T) {
	hook := NewBroadcastHook()
	ch, cancel := hook.Subscribe()
	require.Equal(t, 1, hook.Subscribers())
	cancel()
	cancel()
	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, hook.Subscribers())
}

func TestBroadcastHookDropsWhenSubscriberIsSlow(t *testing.T) {
	hook := NewBroadcastHook()
	_, cancel := hook.Subscribe()
	defer cancel()
	for i := 0; i < subscriberBuffer*2; i++ {
		require.NoError(t, hook.TableUpdated(context.Background(), TableEvent{Table: TableSales, Reason: "view"}))
	}
}

func waitForSubscribers(t *testing.T, hook *BroadcastHook, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hook.Subscribers() < n {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d subscribers", n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestBroadcastHookServeWebSocket(t *testing.T) {
	hook := NewBroadcastHook()
	server := httptest.NewServer(http.HandlerFunc(hook.ServeWebSocket))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "?table=" + TableSales
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	waitForSubscribers(t, hook, 1)

	require.NoError(t, hook.TableUpdated(context.Background(), TableEvent{Table: TableProducts, Reason: "add"}))
	require.NoError(t, hook.TableUpdated(context.Background(), TableEvent{Table: TableSales, RowID: "4", Reason: "update"}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event TableEvent
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, TableEvent{Table: TableSales, RowID: "4", Reason: "update"}, event)
}

func TestBroadcastHookServeSSE(t *testing.T) {
	hook := NewBroadcastHook()
	server := httptest.NewServer(http.HandlerFunc(hook.ServeSSE))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	waitForSubscribers(t, hook, 1)

	require.NoError(t, hook.TableUpdated(context.Background(), TableEvent{Table: TableCatalog, Reason: "save"}))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: save\n", line)
	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	var event TableEvent
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event))
	assert.Equal(t, TableCatalog, event.Table)
}
