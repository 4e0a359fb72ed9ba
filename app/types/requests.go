package types

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
)

type GetOrderRequest struct {
	Id uint64
}

func NewGetOrderRequestFromContext(ctx echo.Context) (*GetOrderRequest, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return nil, err
	}
	return &GetOrderRequest{Id: id}, nil
}

func (r *GetOrderRequest) Validate() error {
	if r.GetId() == 0 {
		return errors.New("invalid order id")
	}
	return nil
}

func (r *GetOrderRequest) GetId() uint64 {
	if r == nil {
		return 0
	}
	return r.Id
}

// CallbackRequest carries one inbound delivery on the gateway callback
// endpoint: either the processor's form-encoded notification (POST) or the
// shopper's bodyless return trip (GET).
type CallbackRequest struct {
	Fields  url.Values
	HasBody bool
}

func NewCallbackRequestFromContext(ctx echo.Context) (*CallbackRequest, error) {
	req := ctx.Request()
	if err := req.ParseForm(); err != nil {
		return nil, err
	}

	fields := url.Values{}
	if req.Method == http.MethodPost {
		for key, values := range req.PostForm {
			for _, value := range values {
				fields.Add(key, value)
			}
		}
	}

	return &CallbackRequest{
		Fields:  fields,
		HasBody: len(fields) > 0,
	}, nil
}

func (r *CallbackRequest) GetFields() url.Values {
	if r == nil {
		return url.Values{}
	}
	return r.Fields
}

func (r *CallbackRequest) GetHasBody() bool {
	if r == nil {
		return false
	}
	return r.HasBody
}
