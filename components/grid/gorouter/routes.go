package gorouter

import (
	"context"
	"errors"
	"net/http"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-datagrid/components/grid"
	"github.com/goliatone/go-datagrid/components/grid/httpapi"
)

// Config wires go-router with the grid API and refresh broadcasts.
type Config[T any] struct {
	Router    router.Router[T]
	API       httpapi.Executor
	Broadcast *grid.BroadcastHook
	BasePath  string
	Routes    RouteConfig
}

// RouteConfig customizes the relative paths used for grid endpoints.
type RouteConfig struct {
	Tables    string
	Table     string
	Rows      string
	Row       string
	Search    string
	Sort      string
	Page      string
	Reset     string
	Export    string
	WebSocket string
}

type registrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Delete(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	WebSocket(path string, cfg router.WebSocketConfig, handler func(router.WebSocketContext) error) router.RouteInfo
}

// requestContext is the part of router.Context the handlers rely on.
type requestContext interface {
	Context() context.Context
	Body() []byte
	Param(name string, defaultValue ...string) string
	JSON(code int, v any) error
	Send(b []byte) error
	SetHeader(k, v string) router.Context
}

type eventSocket interface {
	WriteJSON(v any) error
	Context() context.Context
	Close() error
}

type route struct {
	method string
	path   string
	handle func(requestContext) error
}

// Register mounts the grid REST and WebSocket routes on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.API == nil && cfg.Broadcast == nil {
		return errors.New("gorouter: api or broadcast is required")
	}
	base := cfg.BasePath
	if base == "" {
		base = "/admin"
	}
	mount(cfg.Router.Group(base), cfg.API, cfg.Broadcast, defaultRouteConfig(cfg.Routes))
	return nil
}

func mount(r registrar, api httpapi.Executor, hook *grid.BroadcastHook, routes RouteConfig) {
	// The socket path shares a prefix with the table routes, so it goes first.
	if hook != nil {
		r.WebSocket(routes.WebSocket, router.DefaultWebSocketConfig(), func(ws router.WebSocketContext) error {
			return streamEvents(ws, hook)
		})
	}
	if api == nil {
		return
	}
	for _, rt := range apiRoutes(httpapi.Endpoints{API: api}, routes) {
		handler := wrap(rt.handle)
		switch rt.method {
		case string(router.POST):
			r.Post(rt.path, handler)
		case string(router.DELETE):
			r.Delete(rt.path, handler)
		default:
			r.Get(rt.path, handler)
		}
	}
}

func wrap(handle func(requestContext) error) router.HandlerFunc {
	return router.WrapHandler(func(ctx router.Context) error {
		return handle(ctx)
	})
}

func apiRoutes(endpoints httpapi.Endpoints, routes RouteConfig) []route {
	return []route{
		{string(router.GET), routes.Tables, func(ctx requestContext) error {
			return respond(ctx, endpoints.Tables(ctx.Context()))
		}},
		{string(router.GET), routes.Export, func(ctx requestContext) error {
			result, resp := endpoints.Export(ctx.Context(), ctx.Param("table"))
			if resp.Status != http.StatusOK {
				return respond(ctx, resp)
			}
			ctx.SetHeader("Content-Type", "text/csv; charset=utf-8")
			ctx.SetHeader("Content-Disposition", httpapi.ContentDisposition(result.Filename))
			return ctx.Send(result.Data)
		}},
		{string(router.GET), routes.Table, func(ctx requestContext) error {
			return respond(ctx, endpoints.View(ctx.Context(), ctx.Param("table")))
		}},
		{string(router.POST), routes.Rows, func(ctx requestContext) error {
			return respond(ctx, endpoints.AddRow(ctx.Context(), ctx.Param("table"), ctx.Body()))
		}},
		{string(router.POST), routes.Row, func(ctx requestContext) error {
			return respond(ctx, endpoints.UpdateField(ctx.Context(), ctx.Param("table"), ctx.Param("id"), ctx.Body()))
		}},
		{string(router.DELETE), routes.Row, func(ctx requestContext) error {
			return respond(ctx, endpoints.RemoveRow(ctx.Context(), ctx.Param("table"), ctx.Param("id")))
		}},
		{string(router.POST), routes.Search, func(ctx requestContext) error {
			return respond(ctx, endpoints.Search(ctx.Context(), ctx.Param("table"), ctx.Body()))
		}},
		{string(router.POST), routes.Sort, func(ctx requestContext) error {
			return respond(ctx, endpoints.ToggleSort(ctx.Context(), ctx.Param("table"), ctx.Body()))
		}},
		{string(router.POST), routes.Page, func(ctx requestContext) error {
			return respond(ctx, endpoints.SetPage(ctx.Context(), ctx.Param("table"), ctx.Body()))
		}},
		{string(router.POST), routes.Reset, func(ctx requestContext) error {
			return respond(ctx, endpoints.Reset(ctx.Context(), ctx.Param("table")))
		}},
	}
}

func streamEvents(ws eventSocket, hook *grid.BroadcastHook) error {
	events, cancel := hook.Subscribe()
	defer cancel()
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := ws.WriteJSON(event); err != nil {
				return err
			}
		case <-ws.Context().Done():
			return ws.Close()
		}
	}
}

func respond(ctx requestContext, resp httpapi.Response) error {
	return ctx.JSON(resp.Status, resp.Payload)
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.Tables == "" {
		routes.Tables = "/grids"
	}
	if routes.Table == "" {
		routes.Table = "/grids/:table"
	}
	if routes.Rows == "" {
		routes.Rows = "/grids/:table/rows"
	}
	if routes.Row == "" {
		routes.Row = "/grids/:table/rows/:id"
	}
	if routes.Search == "" {
		routes.Search = "/grids/:table/search"
	}
	if routes.Sort == "" {
		routes.Sort = "/grids/:table/sort"
	}
	if routes.Page == "" {
		routes.Page = "/grids/:table/page"
	}
	if routes.Reset == "" {
		routes.Reset = "/grids/:table/reset"
	}
	if routes.Export == "" {
		routes.Export = "/grids/:table/export"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/grids/ws"
	}
	return routes
}
