package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/articotec/fieldgo/internal/reports"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ordersByTechnicianReport returns the monthly order counts per technician.
// format=json (default), xlsx or pdf.
func (r *Router) ordersByTechnicianReport(w http.ResponseWriter, req *http.Request) {
	now := time.Now()
	year := now.Year()
	month := now.Month()
	if v := req.URL.Query().Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid year")
			return
		}
		year = n
	}
	if v := req.URL.Query().Get("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 12 {
			respondError(w, http.StatusBadRequest, "Invalid month")
			return
		}
		month = time.Month(n)
	}

	rows, err := r.reports.OrdersByTechnician(year, month)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to build report")
		return
	}

	switch req.URL.Query().Get("format") {
	case "", "json":
		respondJSON(w, http.StatusOK, rows)
	case "xlsx":
		data, err := reports.TechnicianXLSX(rows, year, month)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to export report")
			return
		}
		sendAttachment(w, data, xlsxContentType,
			fmt.Sprintf("orders-by-technician-%d-%02d.xlsx", year, int(month)))
	case "pdf":
		data, err := reports.TechnicianPDF(rows, year, month)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to export report")
			return
		}
		sendAttachment(w, data, "application/pdf",
			fmt.Sprintf("orders-by-technician-%d-%02d.pdf", year, int(month)))
	default:
		respondError(w, http.StatusBadRequest, "Unsupported format")
	}
}

// clientActivityReport returns the maintenance projection per client.
// format=json (default) or xlsx.
func (r *Router) clientActivityReport(w http.ResponseWriter, req *http.Request) {
	rows, err := r.reports.ClientActivity(time.Now())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to build report")
		return
	}

	switch req.URL.Query().Get("format") {
	case "", "json":
		respondJSON(w, http.StatusOK, rows)
	case "xlsx":
		data, err := reports.ActivityXLSX(rows)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to export report")
			return
		}
		sendAttachment(w, data, xlsxContentType, "client-activity.xlsx")
	default:
		respondError(w, http.StatusBadRequest, "Unsupported format")
	}
}

// materialUsageReport returns the material consumption report. year is
// required; month and technician_id narrow the period.
func (r *Router) materialUsageReport(w http.ResponseWriter, req *http.Request) {
	yearParam := req.URL.Query().Get("year")
	if yearParam == "" {
		respondError(w, http.StatusBadRequest, "year is required")
		return
	}
	year, err := strconv.Atoi(yearParam)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid year")
		return
	}

	filter := reports.UsageFilter{Year: year}
	if v := req.URL.Query().Get("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 12 {
			respondError(w, http.StatusBadRequest, "Invalid month")
			return
		}
		filter.Month = time.Month(n)
	}
	if v := req.URL.Query().Get("technician_id"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid technician_id")
			return
		}
		filter.TechnicianID = uint(n)
	}

	rows, err := r.reports.MaterialUsage(filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to build report")
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

func sendAttachment(w http.ResponseWriter, data []byte, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
