package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-collection/internal/utils"
)

const (
	flashCookie = "flash"
	flashTTL    = time.Minute
)

// setFlash stores a signed one-shot message for the next rendered page.
func (h *CollectionHandler) setFlash(c echo.Context, category, message string) {
	token, err := utils.NewFlashToken(h.Cfg.FlashSecret, utils.Flash{Category: category, Message: message}, flashTTL)
	if err != nil {
		h.Logger.Warn().Err(err).Msg("sign flash failed")
		return
	}
	c.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(flashTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash returns the pending flash, if any, and clears the cookie.
func (h *CollectionHandler) popFlash(c echo.Context) *utils.Flash {
	ck, err := c.Cookie(flashCookie)
	if err != nil || ck.Value == "" {
		return nil
	}
	c.SetCookie(&http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	f, err := utils.ParseFlashToken(h.Cfg.FlashSecret, ck.Value)
	if err != nil {
		return nil
	}
	return &f
}

func (h *CollectionHandler) redirectWithFlash(c echo.Context, to, category, message string) error {
	h.setFlash(c, category, message)
	return c.Redirect(http.StatusFound, to)
}
