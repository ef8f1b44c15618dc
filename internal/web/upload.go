package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-predictor/internal/clients"
	"alfredoptarigan/resume-predictor/internal/services"
)

func (s *Server) HandleUploadPage(c *fiber.Ctx) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return err
	}

	return s.render(c, sess, "upload", PageData{
		Title:     "Upload Resume",
		Upload:    selectedUpload(sess),
		Analyzing: s.busy.Busy(sess.ID()),
	})
}

// HandleSelect replaces the selection with the posted file when it is declared as a PDF.
func (s *Server) HandleSelect(c *fiber.Ctx) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("file")
	if err != nil {
		return redirect(c, sess, "/upload")
	}

	upload, err := s.storage.SaveFile(file)
	if err != nil {
		if errors.Is(err, services.ErrInvalidFileType) {
			setToast(sess, "Invalid file type", "Please upload a PDF file only.", VariantDestructive)
		} else {
			s.log.Error("failed to store selected file", zap.String("filename", file.Filename), zap.Error(err))
			setToast(sess, "Upload Failed", "Could not store the selected file. Please try again.", VariantDestructive)
		}
		return redirect(c, sess, "/upload")
	}

	if previous := selectedUpload(sess); previous != nil {
		s.discard(previous.ID, func() error { return s.storage.DeleteFile(previous) })
	}
	setUpload(sess, upload)

	s.log.Info("resume selected",
		zap.String("session", sess.ID()),
		zap.String("filename", upload.OriginalName),
		zap.Int64("size", upload.Size),
	)
	return redirect(c, sess, "/upload")
}

func (s *Server) HandleRemove(c *fiber.Ctx) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return err
	}

	if upload := selectedUpload(sess); upload != nil {
		s.discard(upload.ID, func() error { return s.storage.DeleteFile(upload) })
		sess.Delete(keyUpload)
	}
	return redirect(c, sess, "/upload")
}

// HandleAnalyze submits the selection once. On failure the file stays selected.
func (s *Server) HandleAnalyze(c *fiber.Ctx) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return err
	}

	upload := selectedUpload(sess)
	if upload == nil {
		return redirect(c, sess, "/upload")
	}

	sid := sess.ID()
	if !s.busy.TryAcquire(sid) {
		setToast(sess, "Analysis in progress", "Please wait for the current analysis to finish.", VariantDefault)
		return redirect(c, sess, "/upload")
	}
	defer s.busy.Release(sid)

	data, err := s.storage.ReadFile(upload)
	if err != nil {
		s.log.Error("selected file is unreadable", zap.String("session", sid), zap.Error(err))
		sess.Delete(keyUpload)
		setToast(sess, "Analysis Failed", "The selected file is no longer available. Please upload it again.", VariantDestructive)
		return redirect(c, sess, "/upload")
	}

	result, err := s.analyzer.Predict(c.UserContext(), upload.OriginalName, data)
	if err != nil {
		s.log.Warn("analysis failed", zap.String("session", sid), zap.String("filename", upload.OriginalName), zap.Error(err))
		setToast(sess, "Analysis Failed", analyzeFailure(err), VariantDestructive)
		return redirect(c, sess, "/upload")
	}

	if err := s.results.Save(c.UserContext(), sid, result); err != nil {
		s.log.Error("failed to store analysis", zap.String("session", sid), zap.Error(err))
		setToast(sess, "Analysis Failed", analyzeFailure(err), VariantDestructive)
		return redirect(c, sess, "/upload")
	}

	s.discard(upload.ID, func() error { return s.storage.DeleteFile(upload) })
	sess.Delete(keyUpload)
	setToast(sess, "Analysis Complete!", "Your resume has been successfully analyzed.", VariantDefault)

	s.log.Info("analysis complete",
		zap.String("session", sid),
		zap.String("category", result.Category),
		zap.Float64("confidence", result.Confidence),
	)
	return redirect(c, sess, "/result")
}

// analyzeFailure prefers the server detail, then the HTTP fallback, then the transport one.
func analyzeFailure(err error) string {
	var apiErr *clients.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		return "Failed to analyze resume"
	}
	return "There was an error analyzing your resume. Please try again."
}

func (s *Server) discard(id string, remove func() error) {
	if err := remove(); err != nil {
		s.log.Warn("failed to discard upload", zap.String("upload", id), zap.Error(err))
	}
}
