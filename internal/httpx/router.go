package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mcortez/admetrics/internal/analytics"
	"github.com/mcortez/admetrics/internal/config"
	"github.com/mcortez/admetrics/internal/ingest"
	"github.com/mcortez/admetrics/internal/store"
	"github.com/mcortez/admetrics/internal/telemetry"
	"github.com/mcortez/admetrics/internal/utils"

	exportpkg "github.com/mcortez/admetrics/internal/export"
)

// NewRouter wires the HTTP API. Authentication is out of scope here:
// the owner is taken from the X-User-ID header, set by the fronting
// auth layer.
func NewRouter(log *slog.Logger, cfg config.Config, st store.RecordStore, prog store.ProgressStore, imp *ingest.Importer, svc *analytics.Service, tel *telemetry.Metrics) http.Handler {
	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log, tel))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })
	mux.Method(http.MethodGet, "/metrics", promhttp.Handler())

	mux.Route("/api", func(api chi.Router) {
		api.Get("/analytics", func(w http.ResponseWriter, r *http.Request) {
			owner, ok := owner(w, r)
			if !ok {
				return
			}
			f, err := analytics.ParseFilter(r.URL.Query())
			if err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			result, err := svc.Query(r.Context(), owner, f)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			writeJSON(w, http.StatusOK, result)
		})

		api.Get("/insights", func(w http.ResponseWriter, r *http.Request) {
			owner, ok := owner(w, r)
			if !ok {
				return
			}
			insights, result, err := svc.Insights(r.Context(), owner)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"insights": insights, "analytics": result})
		})

		api.Post("/import", func(w http.ResponseWriter, r *http.Request) {
			owner, ok := owner(w, r)
			if !ok {
				return
			}
			counts, err := imp.ImportDatasource(r.Context(), owner, cfg.DatasourceDir)
			if err != nil {
				writeError(w, importStatus(err), err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"message":  "Marketing data imported successfully",
				"imported": counts,
			})
		})

		api.Post("/upload", func(w http.ResponseWriter, r *http.Request) {
			owner, ok := owner(w, r)
			if !ok {
				return
			}
			if err := r.ParseMultipartForm(32 << 20); err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			campaignFiles, err := readFiles(r.MultipartForm.File["campaignFiles"])
			if err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			businessFiles, err := readFiles(r.MultipartForm.File["businessFile"])
			if err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			counts, err := imp.ImportUpload(r.Context(), owner, campaignFiles, businessFiles)
			if err != nil {
				writeError(w, importStatus(err), err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"message":   "Custom data uploaded successfully",
				"processed": counts,
			})
		})

		api.Get("/upload/progress", func(w http.ResponseWriter, r *http.Request) {
			owner, ok := owner(w, r)
			if !ok {
				return
			}
			p, found, err := prog.Get(r.Context(), owner)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			if !found {
				p = store.Progress{Message: "No upload in progress"}
			}
			writeJSON(w, http.StatusOK, p)
		})

		api.Get("/export", func(w http.ResponseWriter, r *http.Request) {
			owner, ok := owner(w, r)
			if !ok {
				return
			}
			csv, err := exportpkg.CSV(r.Context(), st, owner)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			w.Header().Set("Content-Type", "text/csv")
			w.Header().Set("Content-Disposition", `attachment; filename="marketing_data_export.csv"`)
			w.Write([]byte(csv))
		})

		api.Delete("/data", func(w http.ResponseWriter, r *http.Request) {
			owner, ok := owner(w, r)
			if !ok {
				return
			}
			counts, err := imp.ClearData(r.Context(), owner)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"message": "Data cleared successfully",
				"deleted": counts,
			})
		})

		api.Get("/data/counts", func(w http.ResponseWriter, r *http.Request) {
			owner, ok := owner(w, r)
			if !ok {
				return
			}
			nc, nb, err := st.Counts(r.Context(), owner)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"campaigns":       nc,
				"businessMetrics": nb,
			})
		})
	})

	return mux
}

func owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get("X-User-ID")
	if id == "" {
		writeError(w, http.StatusUnauthorized, errors.New("authentication required"))
		return "", false
	}
	return id, true
}

// importStatus maps pipeline errors to HTTP codes: bad input is the
// client's fault, a store failure is ours.
func importStatus(err error) int {
	var ve *ingest.ValidationError
	var pe *ingest.ParseError
	if errors.As(err, &ve) || errors.As(err, &pe) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func readFiles(headers []*multipart.FileHeader) ([]ingest.File, error) {
	var out []ingest.File
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(io.LimitReader(f, ingest.MaxFileSize+1))
		f.Close()
		if err != nil {
			return nil, err
		}
		out = append(out, ingest.File{Name: fh.Filename, Data: data})
	}
	return out, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
