package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// GetBlackboardParams defines parameters for GetBlackboard.
type GetBlackboardParams struct {
	// Key limits the answer to these entries.
	Key *[]string `form:"key,omitempty" json:"key,omitempty"`
}

// ServerInterface represents all server handlers of openapi.yaml.
type ServerInterface interface {
	// (GET /health)
	GetHealth(w http.ResponseWriter, r *http.Request)
	// (GET /info)
	GetInfo(w http.ResponseWriter, r *http.Request)
	// (GET /tree)
	GetTree(w http.ResponseWriter, r *http.Request)
	// (GET /tree/nodes/{uid})
	GetNode(w http.ResponseWriter, r *http.Request, uid int)
	// (GET /blackboard)
	GetBlackboard(w http.ResponseWriter, r *http.Request, params GetBlackboardParams)
	// (GET /graph)
	GetGraph(w http.ResponseWriter, r *http.Request)
	// (GET /events)
	SubscribeEvents(w http.ResponseWriter, r *http.Request)
	// (POST /stop)
	Stop(w http.ResponseWriter, r *http.Request)
}

// InvalidParamFormatError is reported when a parameter cannot be bound.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

// ServerInterfaceWrapper binds parameters before calling the handlers.
type ServerInterfaceWrapper struct {
	Handler          ServerInterface
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// GetNode operation middleware
func (siw *ServerInterfaceWrapper) GetNode(w http.ResponseWriter, r *http.Request) {
	var uid int
	err := runtime.BindStyledParameterWithOptions("simple", "uid", chi.URLParam(r, "uid"), &uid,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "uid", Err: err})
		return
	}
	siw.Handler.GetNode(w, r, uid)
}

// GetBlackboard operation middleware
func (siw *ServerInterfaceWrapper) GetBlackboard(w http.ResponseWriter, r *http.Request) {
	var params GetBlackboardParams
	if err := runtime.BindQueryParameter("form", true, false, "key", r.URL.Query(), &params.Key); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "key", Err: err})
		return
	}
	siw.Handler.GetBlackboard(w, r, params)
}

// HandlerFromMux registers the API routes on r.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
		ErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		},
	}

	r.Get("/health", si.GetHealth)
	r.Get("/info", si.GetInfo)
	r.Get("/tree", si.GetTree)
	r.Get("/tree/nodes/{uid}", wrapper.GetNode)
	r.Get("/blackboard", wrapper.GetBlackboard)
	r.Get("/graph", si.GetGraph)
	r.Get("/events", si.SubscribeEvents)
	r.Post("/stop", si.Stop)
	return r
}
