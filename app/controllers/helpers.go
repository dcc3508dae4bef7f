// Package controllers is the HTTP layer: controllers decode requests,
// call services and render the response envelope. Business failures
// surface as FAILURE envelopes with HTTP 200; transport problems get
// real status codes.
package controllers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/chhotalabhavik/cleanout/app/services"
	"github.com/chhotalabhavik/cleanout/pkg/ctx"
	"github.com/chhotalabhavik/cleanout/pkg/storage"
)

// renderError maps a service error onto the wire: business failures
// become FAILURE envelopes, everything else a 500.
func renderError(c *ctx.Context, err error) {
	if msg, ok := services.AsFail(err); ok {
		c.Fail(msg)
		return
	}
	c.Error(http.StatusInternalServerError, "Something went wrong")
}

// saveUpload stores an optional multipart file under dir and returns its
// storage path. A missing file is not an error; the caller keeps the old
// path.
func saveUpload(c *ctx.Context, field, dir string) (string, error) {
	file, header, err := c.R.FormFile(field)
	if err == http.ErrMissingFile {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()
	return storeFile(file, header, dir)
}

func storeFile(file multipart.File, header *multipart.FileHeader, dir string) (string, error) {
	name := fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(header.Filename))
	path := dir + "/" + name
	if err := storage.PutStream(path, file); err != nil {
		return "", err
	}
	return path, nil
}

// formUint parses a form field as an unsigned ID; 0 on absence.
func formUint(c *ctx.Context, field string) uint {
	v, err := strconv.ParseUint(c.PostForm(field), 10, 64)
	if err != nil {
		return 0
	}
	return uint(v)
}

// formFloat parses a form field as a float; 0 on absence.
func formFloat(c *ctx.Context, field string) float64 {
	v, err := strconv.ParseFloat(c.PostForm(field), 64)
	if err != nil {
		return 0
	}
	return v
}

// page reads the 1-based page query parameter.
func page(c *ctx.Context) int {
	p := c.QueryInt("page", 1)
	if p < 1 {
		p = 1
	}
	return p
}

// isConsole reports whether the caller's token carries a console role.
func isConsole(c *ctx.Context) bool {
	role := c.Role()
	return role == "ADMIN" || role == "COADMIN"
}

// authorizeUser resolves the acted-on account from the path. Console
// roles may act on anyone; everyone else only on themselves. Returns
// false after writing the response when access is denied.
func authorizeUser(c *ctx.Context) (uint, bool) {
	id := c.ParamUint("userId")
	if id == 0 {
		id = c.UserID()
	}
	if id != c.UserID() && !isConsole(c) {
		c.Forbidden()
		return 0, false
	}
	return id, true
}
