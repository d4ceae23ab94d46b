package plan

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Field readers. Each takes the resolved object, a default and one or more
// alias keys, and falls back to the default on absence or a wrong shape.
// Zero and negative numbers count as absent.

func text(obj gjson.Result, def string, keys ...string) string {
	for _, k := range keys {
		v := obj.Get(k)
		switch v.Type {
		case gjson.String:
			if s := strings.TrimSpace(v.Str); s != "" {
				return v.Str
			}
		case gjson.Number:
			return v.Raw
		}
	}
	return def
}

func number(obj gjson.Result, def float64, keys ...string) float64 {
	for _, k := range keys {
		if f, ok := asNumber(obj.Get(k)); ok && f > 0 {
			return f
		}
	}
	return def
}

func integer(obj gjson.Result, def int, keys ...string) int {
	f := number(obj, float64(def), keys...)
	return int(math.Round(f))
}

func confidence(obj gjson.Result, def float64) float64 {
	f, ok := asNumber(obj.Get("confidence"))
	if !ok || f <= 0 || f > 1 {
		return def
	}
	return f
}

func asNumber(v gjson.Result) (float64, bool) {
	switch v.Type {
	case gjson.Number:
		if math.IsNaN(v.Num) || math.IsInf(v.Num, 0) {
			return 0, false
		}
		return v.Num, true
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// stringList reads a list of scalar strings. Non-scalar elements are skipped.
// The result is never nil.
func stringList(obj gjson.Result, keys ...string) []string {
	for _, k := range keys {
		v := obj.Get(k)
		if !v.IsArray() {
			continue
		}
		out := []string{}
		for _, item := range v.Array() {
			switch item.Type {
			case gjson.String:
				if item.Str != "" {
					out = append(out, item.Str)
				}
			case gjson.Number:
				out = append(out, item.Raw)
			}
		}
		return out
	}
	return []string{}
}

// objects returns the elements of the first alias that holds a non-empty
// array, keeping only object elements.
func objects(obj gjson.Result, keys ...string) []gjson.Result {
	for _, k := range keys {
		v := obj.Get(k)
		if !v.IsArray() {
			continue
		}
		var out []gjson.Result
		for _, item := range v.Array() {
			if item.IsObject() {
				out = append(out, item)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}
