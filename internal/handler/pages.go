package handler

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dashboard/internal/forms"
	"dashboard/internal/session"
	"dashboard/internal/shell"
)

// Home handles GET /
func (h *Handler) Home(c *gin.Context) {
	h.render(c, current(c), pageHome, http.StatusOK)
}

// AdminDashboard handles GET /admin
func (h *Handler) AdminDashboard(c *gin.Context) {
	s := current(c)
	h.mountAdmin(c, s)
	if err := s.Admin.Mount(c.Request.Context()); err != nil {
		h.logger.Warn("Admin dashboard mount interrupted", zap.Error(err))
	}
	h.render(c, s, pageAdmin, http.StatusOK)
}

// ToggleUploadForm handles POST /admin/datasets/form
func (h *Handler) ToggleUploadForm(c *gin.Context) {
	s := current(c)
	s.Admin.ShowUploadForm(c.PostForm("show") == "true")
	h.render(c, s, pageAdmin, http.StatusOK)
}

// UploadDataset handles POST /admin/datasets
func (h *Handler) UploadDataset(c *gin.Context) {
	s := current(c)
	file, closeFile := formFile(c, "file")
	defer closeFile()

	form := forms.DatasetUpload{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		File:        file,
	}
	if err := s.Admin.UploadDataset(c.Request.Context(), form); err != nil {
		h.logger.Info("Dataset upload rejected", zap.Error(err))
	}
	h.render(c, s, pageAdmin, http.StatusOK)
}

// DeleteDataset handles POST /admin/datasets/:id/delete
func (h *Handler) DeleteDataset(c *gin.Context) {
	s := current(c)
	id, ok := parseID(c, "id")
	if !ok {
		h.render(c, s, pageAdmin, http.StatusBadRequest)
		return
	}
	if err := s.Admin.DeleteDataset(c.Request.Context(), id); err != nil {
		h.logger.Warn("Dataset delete failed", zap.Int64("dataset_id", id), zap.Error(err))
	}
	h.render(c, s, pageAdmin, http.StatusOK)
}

// TrainModel handles POST /admin/models/train
func (h *Handler) TrainModel(c *gin.Context) {
	s := current(c)
	form := forms.ModelTrain{
		Name:         c.PostForm("name"),
		DatasetID:    c.PostForm("dataset_id"),
		TargetColumn: c.PostForm("target_column_name"),
		KMeansParams: c.PostForm("kmeans_params"),
		SVMParams:    c.PostForm("svm_params"),
		TestSize:     c.PostForm("test_size"),
		RandomState:  c.PostForm("random_state"),
	}
	if err := s.Admin.TrainModel(c.Request.Context(), form); err != nil {
		h.logger.Info("Model training rejected", zap.Error(err))
	}
	h.render(c, s, pageAdmin, http.StatusOK)
}

// DeleteModel handles POST /admin/models/:id/delete
func (h *Handler) DeleteModel(c *gin.Context) {
	s := current(c)
	id, ok := parseID(c, "id")
	if !ok {
		h.render(c, s, pageAdmin, http.StatusBadRequest)
		return
	}
	if err := s.Admin.DeleteModel(c.Request.Context(), id); err != nil {
		h.logger.Warn("Model delete failed", zap.Int64("model_id", id), zap.Error(err))
	}
	h.render(c, s, pageAdmin, http.StatusOK)
}

// DatasetDetail handles GET /admin/datasets/:id
func (h *Handler) DatasetDetail(c *gin.Context) {
	s := current(c)
	h.mountAdmin(c, s)
	id, _ := parseID(c, "id")
	_ = s.Dataset.Mount(c.Request.Context(), id)
	h.render(c, s, pageDataset, http.StatusOK)
}

// ScanDetail handles GET /admin/scans/:id
func (h *Handler) ScanDetail(c *gin.Context) {
	s := current(c)
	h.mountAdmin(c, s)
	id, _ := parseID(c, "id")
	_ = s.Scan.Mount(c.Request.Context(), id)
	h.render(c, s, pageScan, http.StatusOK)
}

// History handles GET /admin/history?nav=next|prev or ?skip=n
func (h *Handler) History(c *gin.Context) {
	s := current(c)
	h.mountAdmin(c, s)
	ctx := c.Request.Context()

	var err error
	switch c.Query("nav") {
	case "next":
		err = s.History.Next(ctx)
	case "prev":
		err = s.History.Prev(ctx)
	default:
		skip, _ := strconv.Atoi(c.Query("skip"))
		err = s.History.Goto(ctx, skip)
	}
	if err != nil {
		h.logger.Warn("History page interrupted", zap.Error(err))
	}
	h.render(c, s, pageHistory, http.StatusOK)
}

// Settings handles GET /admin/settings
func (h *Handler) Settings(c *gin.Context) {
	s := current(c)
	h.mountAdmin(c, s)
	h.render(c, s, pageSettings, http.StatusOK)
}

// UserDashboard handles GET /user
func (h *Handler) UserDashboard(c *gin.Context) {
	s := current(c)
	h.mountShell(c, s.UserShell)
	if err := s.User.Mount(c.Request.Context()); err != nil {
		h.logger.Warn("User dashboard mount interrupted", zap.Error(err))
	}
	h.render(c, s, pageUser, http.StatusOK)
}

// Scan handles POST /user/scan
func (h *Handler) Scan(c *gin.Context) {
	s := current(c)
	file, closeFile := formFile(c, "file")
	defer closeFile()

	form := forms.Scan{ModelID: c.PostForm("model_id"), File: file}
	if err := s.User.Scan(c.Request.Context(), form); err != nil {
		h.logger.Info("Scan rejected", zap.Error(err))
	}
	h.render(c, s, pageUser, http.StatusOK)
}

// mountAdmin re-fetches the admin shell. Every full page view mounts it;
// shell actions re-render from the held state instead.
func (h *Handler) mountAdmin(c *gin.Context, s *session.Session) {
	h.mountShell(c, s.AdminShell)
}

func (h *Handler) mountShell(c *gin.Context, sh *shell.Shell) {
	if err := sh.Mount(c.Request.Context()); err != nil {
		h.logger.Warn("Shell mount interrupted", zap.Error(err))
	}
}

// formFile opens an uploaded file. A missing file yields nil, which the
// form validators reject.
func formFile(c *gin.Context, field string) (*forms.FileInput, func()) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, func() {}
	}
	f, err := header.Open()
	if err != nil {
		return nil, func() {}
	}
	return &forms.FileInput{Filename: header.Filename, Content: f}, func() { closeQuietly(f) }
}

func closeQuietly(f multipart.File) {
	_ = f.Close()
}
