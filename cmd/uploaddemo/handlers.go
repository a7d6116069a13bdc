package main

import (
	"io"
	"net/http"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest/httpx"

	"github.com/nova-upload/uploadcore/manager"
)

const maxUploadMemory = 32 << 20 // multipart form parse budget

// uploadHandler accepts a single multipart "file" field, admits it through
// the manager, and kicks off an upload in the same request.
func uploadHandler(mgr *manager.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		tracked, err := mgr.AddFile(manager.FileSource{
			Name:     header.Filename,
			Data:     data,
			MimeType: header.Header.Get("Content-Type"),
		})
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		if err := mgr.Upload(); err != nil {
			logx.Errorf("uploaddemo: upload() failed: %v", err)
		}

		httpx.OkJsonCtx(r.Context(), w, tracked)
	}
}

// listHandler returns the current tracked file sequence.
func listHandler(mgr *manager.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.OkJsonCtx(r.Context(), w, mgr.Files())
	}
}
