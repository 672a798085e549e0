// Package inventory converts raw product and warehouse records into the
// canonical model and joins them into inventory rows.
//
// Records come from two places that disagree on key casing: the backend
// answers in camelCase ("productId") while the bundled fixtures use
// PascalCase ("ProductId"). Numeric fields may also arrive as strings.
// Everything is converted once here so callers only ever see model types.
package inventory

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"go-inventory-console/internal/model"

	"github.com/shopspring/decimal"
)

var (
	// ErrShape is returned when a payload is not a list of objects.
	ErrShape = errors.New("inventory: payload is not a list of records")
)

type record map[string]any

// DecodeProducts parses a JSON array of product records in either casing.
func DecodeProducts(data []byte) ([]model.Product, error) {
	recs, err := decodeList(data)
	if err != nil {
		return nil, err
	}
	products := make([]model.Product, 0, len(recs))
	for i, rec := range recs {
		p, err := productFrom(rec)
		if err != nil {
			return nil, fmt.Errorf("inventory: product %d: %w", i, err)
		}
		products = append(products, p)
	}
	return products, nil
}

// DecodeWarehouses parses a JSON array of warehouse records in either casing.
func DecodeWarehouses(data []byte) ([]model.Warehouse, error) {
	recs, err := decodeList(data)
	if err != nil {
		return nil, err
	}
	warehouses := make([]model.Warehouse, 0, len(recs))
	for i, rec := range recs {
		w, err := warehouseFrom(rec)
		if err != nil {
			return nil, fmt.Errorf("inventory: warehouse %d: %w", i, err)
		}
		warehouses = append(warehouses, w)
	}
	return warehouses, nil
}

// DecodeProduct parses a single product object in either casing, as returned
// by the transfer endpoint.
func DecodeProduct(data []byte) (model.Product, error) {
	v, err := decodeValue(data)
	if err != nil {
		return model.Product{}, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return model.Product{}, fmt.Errorf("%w: expected object, got %s", ErrShape, kindOf(v))
	}
	p, err := productFrom(record(obj))
	if err != nil {
		return p, fmt.Errorf("inventory: product: %w", err)
	}
	return p, nil
}

// decodeValue parses exactly one JSON value. Anything after it, even another
// valid value, is a shape error.
func decodeValue(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShape, err)
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after JSON value", ErrShape)
	}
	return v, nil
}

func decodeList(data []byte) ([]record, error) {
	v, err := decodeValue(data)
	if err != nil {
		return nil, err
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrShape, kindOf(v))
	}
	recs := make([]record, 0, len(list))
	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: element %d is %s", ErrShape, i, kindOf(item))
		}
		recs = append(recs, record(obj))
	}
	return recs, nil
}

func productFrom(rec record) (model.Product, error) {
	var (
		p   model.Product
		err error
	)
	if p.ProductID, err = rec.getUint("productId"); err != nil {
		return p, err
	}
	if p.Name, err = rec.getString("name"); err != nil {
		return p, err
	}
	if p.Price, err = rec.getDecimal("price"); err != nil {
		return p, err
	}
	stock, err := rec.getInt("stock")
	if err != nil {
		return p, err
	}
	if stock < 0 {
		return p, fmt.Errorf("field %q: negative stock %d", "stock", stock)
	}
	p.Stock = stock
	if p.WarehouseID, err = rec.getUint("warehouseId"); err != nil {
		return p, err
	}
	return p, nil
}

func warehouseFrom(rec record) (model.Warehouse, error) {
	var (
		w   model.Warehouse
		err error
	)
	if w.WarehouseID, err = rec.getUint("warehouseId"); err != nil {
		return w, err
	}
	if w.Location, err = rec.getString("location"); err != nil {
		return w, err
	}
	return w, nil
}

// lookup finds key in camelCase, then PascalCase, then any casing.
func (r record) lookup(key string) (any, bool) {
	if v, ok := r[key]; ok {
		return v, true
	}
	if v, ok := r[pascal(key)]; ok {
		return v, true
	}
	for k, v := range r {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

func (r record) getString(key string) (string, error) {
	v, ok := r.lookup(key)
	if !ok || v == nil {
		return "", nil
	}
	switch s := v.(type) {
	case string:
		return s, nil
	case json.Number:
		return s.String(), nil
	}
	return "", fmt.Errorf("field %q: expected string, got %s", key, kindOf(v))
}

func (r record) getUint(key string) (uint, error) {
	n, err := r.getInt(key)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("field %q: negative id %d", key, n)
	}
	return uint(n), nil
}

func (r record) getInt(key string) (int, error) {
	v, ok := r.lookup(key)
	if !ok || v == nil {
		return 0, nil
	}
	var raw string
	switch n := v.(type) {
	case json.Number:
		raw = n.String()
	case string:
		raw = strings.TrimSpace(n)
		if raw == "" {
			return 0, nil
		}
	default:
		return 0, fmt.Errorf("field %q: expected number, got %s", key, kindOf(v))
	}
	if i, err := strconv.Atoi(raw); err == nil {
		return i, nil
	}
	// 5.0 is a valid integer in JSON producers that only have floats.
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("field %q: %q is not an integer", key, raw)
	}
	return int(f), nil
}

func (r record) getDecimal(key string) (decimal.Decimal, error) {
	v, ok := r.lookup(key)
	if !ok || v == nil {
		return decimal.Zero, nil
	}
	var raw string
	switch n := v.(type) {
	case json.Number:
		raw = n.String()
	case string:
		raw = strings.TrimSpace(n)
		if raw == "" {
			return decimal.Zero, nil
		}
	default:
		return decimal.Zero, fmt.Errorf("field %q: expected number, got %s", key, kindOf(v))
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("field %q: %w", key, err)
	}
	return d, nil
}

func pascal(key string) string {
	if key == "" {
		return key
	}
	return strings.ToUpper(key[:1]) + key[1:]
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "bool"
	}
	return fmt.Sprintf("%T", v)
}
