// Contact page routes
package postbox

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/G-Node/postbox/postbox/contact"
	"github.com/G-Node/postbox/postbox/form"
	"github.com/G-Node/postbox/templates"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	restLabel = "Envoyer le Message"
	busyLabel = "Envoi..."

	// maxFormBytes bounds the size of a posted form.
	maxFormBytes = 64 << 10
)

var banners = map[contact.Outcome]struct{ text, class string }{
	contact.OutcomeSubmitted: {"Message envoyé. Merci !", "success"},
	contact.OutcomeRejected:  {"L'envoi a été refusé. Veuillez réessayer plus tard.", "failure"},
	contact.OutcomeFailed:    {"L'envoi a échoué. Vérifiez votre connexion et réessayez.", "failure"},
	contact.OutcomeBusy:      {"Envoi déjà en cours.", "info"},
}

// outcomeStatus is the HTTP status of the page rendered after a submission.
func outcomeStatus(o contact.Outcome) int {
	switch o {
	case contact.OutcomeInvalid:
		return http.StatusUnprocessableEntity
	case contact.OutcomeBusy:
		return http.StatusConflict
	case contact.OutcomeRejected, contact.OutcomeFailed:
		return http.StatusBadGateway
	}
	return http.StatusOK
}

var contactTmpl = template.Must(template.Must(template.New("layout").Parse(templates.Layout)).Parse(templates.Contact))

// Handler returns the HTTP handler serving all routes.
func (srv *Service) Handler() http.Handler {
	return srv.web.Handler
}

// setupWebRoutes sets up the routes of the service.
func (srv *Service) setupWebRoutes() {
	router := srv.web.Router
	router.StrictSlash(true)

	router.HandleFunc("/", srv.renderForm).Methods("GET")
	router.HandleFunc("/", srv.processForm).Methods("POST")
	router.HandleFunc("/views/{id}/fields/{field}", srv.changeField).Methods("POST")
	router.HandleFunc("/views/{id}/close", srv.closeView).Methods("POST")
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}).Methods("GET")

	if srv.Config.AssetsDir != "" {
		router.PathPrefix("/assets/").Handler(http.StripPrefix("/assets/", http.FileServer(http.Dir(srv.Config.AssetsDir))))
	}
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srv.web.ErrorResponse(w, http.StatusNotFound, "La page que vous cherchez n'existe pas ou a été déplacée.")
	})
}

func (srv *Service) mount() *view {
	v := srv.views.mount(srv.newController)
	srv.log.Debug("View mounted", zap.String("view", v.id))
	return v
}

func (srv *Service) renderView(w http.ResponseWriter, v *view, status int) {
	snap := v.ctrl.Snapshot()
	data := make(map[string]interface{})
	data["view"] = v.id
	data["elements"] = form.Elements(snap.Fields, snap.Errors)
	data["submitting"] = snap.Submitting
	data["restLabel"] = restLabel
	data["busyLabel"] = busyLabel
	if b, ok := banners[snap.Outcome]; ok {
		data["banner"] = b.text
		data["bannerClass"] = b.class
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := contactTmpl.Execute(w, data); err != nil {
		srv.log.Error("Failed to render form", zap.Error(err))
	}
}

// renderForm mounts a fresh view; every page load starts with an empty form.
func (srv *Service) renderForm(w http.ResponseWriter, r *http.Request) {
	srv.renderView(w, srv.mount(), http.StatusOK)
}

func (srv *Service) processForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		srv.log.Info("Failed to parse form", zap.Error(err))
		srv.web.ErrorResponse(w, http.StatusBadRequest, "Formulaire illisible.")
		return
	}

	v, ok := srv.views.get(r.PostForm.Get("_view"))
	if !ok {
		// expired or unknown view: submit from a fresh one
		v = srv.mount()
	}
	for _, f := range form.Fields {
		if values, posted := r.PostForm[string(f)]; posted && len(values) > 0 {
			v.ctrl.OnFieldChange(string(f), values[0])
		}
	}

	outcome := v.ctrl.OnSubmit(r.Context())
	srv.log.Debug("Form submitted", zap.String("view", v.id), zap.Stringer("outcome", outcome))
	srv.renderView(w, v, outcomeStatus(outcome))
}

type fieldFeedback struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

func (srv *Service) changeField(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	v, ok := srv.views.get(vars["id"])
	if !ok {
		http.Error(w, "no such view", http.StatusNotFound)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseMultipartForm(maxFormBytes); err != nil && err != http.ErrNotMultipart {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}
	if err := v.ctrl.OnFieldChange(vars["field"], r.FormValue("value")); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	msg, _ := v.ctrl.FieldError(vars["field"])

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(fieldFeedback{Field: vars["field"], Error: msg}); err != nil {
		srv.log.Error("Failed to write field feedback", zap.Error(err))
	}
}

func (srv *Service) closeView(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !srv.views.close(id) {
		http.Error(w, "no such view", http.StatusNotFound)
		return
	}
	srv.log.Debug("View closed", zap.String("view", id))
	w.WriteHeader(http.StatusNoContent)
}
