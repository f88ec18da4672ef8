package counter

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/janisto/htmx-playground/internal/htmx"
	applog "github.com/janisto/htmx-playground/internal/platform/logging"
	countersvc "github.com/janisto/htmx-playground/internal/service/counter"
)

// Event names raised on htmx clients.
const (
	EventChanged = "counterChanged"
	EventReset   = "counterReset"
)

// Register registers counter endpoints.
func Register(api huma.API, svc countersvc.Service) {
	huma.Register(api, huma.Operation{
		OperationID: "get-counter",
		Method:      http.MethodGet,
		Path:        "/counter",
		Summary:     "Get the counter",
		Tags:        []string{"Counter"},
	}, func(ctx context.Context, _ *struct{}) (*GetOutput, error) {
		v, err := svc.Get(ctx)
		if err != nil {
			return nil, mapServiceError(ctx, err)
		}
		return &GetOutput{Body: Counter{Value: v}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "increment-counter",
		Method:      http.MethodPost,
		Path:        "/counter/increment",
		Summary:     "Add to the counter",
		Description: "Adds step to the counter. htmx clients receive a counterChanged event with the new value.",
		Tags:        []string{"Counter"},
	}, func(ctx context.Context, input *IncrementInput) (*IncrementOutput, error) {
		v, err := svc.Add(ctx, input.Body.Step)
		if err != nil {
			return nil, mapServiceError(ctx, err)
		}
		ev, err := htmx.NewEventWithData(EventChanged, Changed{Count: v})
		if err != nil {
			return nil, err
		}
		field, err := htmx.ComposeTrigger(htmx.ImmediateTriggers(ev))
		if err != nil {
			return nil, err
		}
		applog.LogInfo(ctx, "counter incremented", zap.Int64("step", input.Body.Step), zap.Int64("value", v))
		return &IncrementOutput{Trigger: field.Value, Body: Counter{Value: v}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "reset-counter",
		Method:        http.MethodDelete,
		Path:          "/counter",
		Summary:       "Reset the counter",
		Tags:          []string{"Counter"},
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, _ *struct{}) (*ResetOutput, error) {
		if err := svc.Reset(ctx); err != nil {
			return nil, mapServiceError(ctx, err)
		}
		field, err := htmx.ComposeTrigger(htmx.AfterSettleTriggers(htmx.NewEvent(EventReset)))
		if err != nil {
			return nil, err
		}
		return &ResetOutput{Trigger: field.Value}, nil
	})
}

func mapServiceError(ctx context.Context, err error) error {
	if errors.Is(err, countersvc.ErrStepOutOfRange) {
		return huma.Error422UnprocessableEntity(err.Error())
	}
	applog.LogError(ctx, "counter service error", err)
	return huma.Error500InternalServerError("internal server error")
}
