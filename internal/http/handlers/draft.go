package handlers

import (
	"net/http"

	"github.com/appclacks/slo-dashboard/pkg/slo/aggregates"
	"github.com/labstack/echo/v4"
)

func (b *Builder) GetDraft(ec echo.Context) error {
	draft, err := b.slo.LoadDraft(ec.Request().Context())
	if err != nil {
		return err
	}
	if draft == nil {
		draft = aggregates.NewForm()
	}
	return ec.JSON(http.StatusOK, DraftOutput{Draft: draft})
}

func (b *Builder) SaveDraft(ec echo.Context) error {
	form := aggregates.NewForm()
	if err := ec.Bind(form); err != nil {
		return err
	}
	if err := b.slo.SaveDraft(ec.Request().Context(), form); err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, NewResponse("Draft saved"))
}

func (b *Builder) EditDraftField(ec echo.Context) error {
	var payload EditDraftFieldInput
	if err := ec.Bind(&payload); err != nil {
		return err
	}
	if err := ec.Validate(payload); err != nil {
		return err
	}
	draft, errors, err := b.slo.EditDraft(ec.Request().Context(), payload.Field, payload.Value)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, DraftOutput{Draft: draft, Errors: errors})
}

func (b *Builder) DeleteDraft(ec echo.Context) error {
	if err := b.slo.ClearDraft(ec.Request().Context()); err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, NewResponse("Draft discarded"))
}
