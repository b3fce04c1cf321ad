package ws

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"

	"github.com/booknook/storefront/internal/core/domain"
)

var validate = validator.New()

type statusChangeShape struct {
	ID     int64  `validate:"gt=0"`
	Status string `validate:"required"`
}

type createdShape struct {
	ID int64 `validate:"gt=0"`
}

// Decode parses one inbound frame. The discriminator is read from "type",
// falling back to "message". Payload fields are read from a "payload" object
// when the frame has one, otherwise from the top level. Any mismatch fails
// closed with domain.ErrMalformedMessage or domain.ErrUnknownMessage.
func Decode(raw []byte) (domain.Envelope, error) {
	if !gjson.ValidBytes(raw) {
		return domain.Envelope{}, fmt.Errorf("%w: not json", domain.ErrMalformedMessage)
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return domain.Envelope{}, fmt.Errorf("%w: not an object", domain.ErrMalformedMessage)
	}

	disc := root.Get("type")
	if disc.Type != gjson.String || disc.Str == "" {
		disc = root.Get("message")
	}
	if disc.Type != gjson.String || disc.Str == "" {
		return domain.Envelope{}, fmt.Errorf("%w: missing discriminator", domain.ErrMalformedMessage)
	}

	kind := domain.MessageKind(strings.ToLower(strings.TrimSpace(disc.Str)))
	if !kind.Valid() {
		return domain.Envelope{}, fmt.Errorf("%w: %q", domain.ErrUnknownMessage, disc.Str)
	}

	body := root.Get("payload")
	nested := body.IsObject()
	if !nested {
		body = root
	}

	env := domain.Envelope{Kind: kind}
	switch kind {
	case domain.KindOrderStatusChanged:
		return decodeStatusChange(env, body, "order_id", "order")
	case domain.KindReturnOrderStatusChanged:
		return decodeStatusChange(env, body, "return_order_id", "return_order")
	case domain.KindOrderCreated:
		return decodeCreated(env, body, "order", nested)
	case domain.KindReturnOrderCreated:
		return decodeCreated(env, body, "return_order", nested)
	case domain.KindWalletUpdated:
		if v := body.Get("wallet_balance"); v.Type == gjson.Number {
			balance := v.Num
			env.WalletBalance = &balance
		}
	}
	return env, nil
}

func decodeStatusChange(env domain.Envelope, body gjson.Result, idField, object string) (domain.Envelope, error) {
	shape := statusChangeShape{
		ID:     firstInt(body, idField, "id", object+".id"),
		Status: firstString(body, "status", object+".status"),
	}
	if err := validate.Struct(shape); err != nil {
		return domain.Envelope{}, fmt.Errorf("%w: %s: %v", domain.ErrMalformedMessage, env.Kind, err)
	}
	env.SubjectID = shape.ID
	env.Status = shape.Status
	return env, nil
}

func decodeCreated(env domain.Envelope, body gjson.Result, object string, nested bool) (domain.Envelope, error) {
	ent := body.Get(object)
	if !ent.IsObject() && nested {
		// {type, payload: {...the entity...}}
		ent = body
	}
	if !ent.IsObject() {
		return domain.Envelope{}, fmt.Errorf("%w: %s: missing %s object", domain.ErrMalformedMessage, env.Kind, object)
	}

	var rec domain.Record
	if err := json.Unmarshal([]byte(ent.Raw), &rec); err != nil {
		return domain.Envelope{}, fmt.Errorf("%w: %s: %v", domain.ErrMalformedMessage, env.Kind, err)
	}
	id, _ := rec.ID()
	if err := validate.Struct(createdShape{ID: id}); err != nil {
		return domain.Envelope{}, fmt.Errorf("%w: %s: %v", domain.ErrMalformedMessage, env.Kind, err)
	}
	env.SubjectID = id
	env.Entity = rec
	return env, nil
}

func firstInt(body gjson.Result, paths ...string) int64 {
	for _, p := range paths {
		v := body.Get(p)
		switch v.Type {
		case gjson.Number:
			return v.Int()
		case gjson.String:
			if n, err := strconv.ParseInt(v.Str, 10, 64); err == nil {
				return n
			}
		}
	}
	return 0
}

func firstString(body gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := body.Get(p); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return ""
}
