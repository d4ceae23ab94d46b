package plan

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Domain names one of the four sections of a unified plan.
type Domain string

const (
	DomainFitness   Domain = "fitness"
	DomainNutrition Domain = "nutrition"
	DomainSleep     Domain = "sleep"
	DomainMental    Domain = "mental"
)

// Domains lists every domain in display order.
var Domains = []Domain{DomainFitness, DomainNutrition, DomainSleep, DomainMental}

func (d Domain) String() string { return string(d) }

// ParseDomain accepts a domain name as typed on the command line.
func ParseDomain(s string) (Domain, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fitness", "workout":
		return DomainFitness, true
	case "nutrition", "meals", "diet":
		return DomainNutrition, true
	case "sleep":
		return DomainSleep, true
	case "mental", "mental_wellness", "mind":
		return DomainMental, true
	}
	return "", false
}

var candidatePaths = map[Domain][]string{
	DomainFitness:   wrapperPaths("fitness"),
	DomainNutrition: wrapperPaths("nutrition"),
	DomainSleep:     wrapperPaths("sleep"),
	DomainMental: {
		"plan.unified_plan.mental_wellness",
		"unified_plan.mental_wellness",
		"result.unified_plan.mental_wellness",
		"plan_data.mental",
		"plan_data.mental_wellness",
		"mental_wellness",
		"mental",
		"plan.mental_wellness",
	},
}

// Plans generated by the coordinator sometimes nest the useful part of a
// domain one level deeper.
var innerWrappers = map[Domain]string{
	DomainFitness:   "workout_plan",
	DomainNutrition: "meal_plan",
	DomainSleep:     "sleep_recommendations",
	DomainMental:    "wellness_recommendations",
}

func wrapperPaths(key string) []string {
	return []string{
		"plan.unified_plan." + key,
		"unified_plan." + key,
		"result.unified_plan." + key,
		"plan_data." + key,
		key,
		"plan." + key,
	}
}

var emptyObject = gjson.Parse("{}")

// Resolve walks paths in order and returns the first one that holds a
// non-empty JSON object. When nothing matches it returns an empty object, so
// callers can read fields without checking for existence first.
func Resolve(doc Document, paths ...string) gjson.Result {
	root := doc.root()
	if !root.IsObject() {
		return emptyObject
	}
	for _, p := range paths {
		if r := root.Get(p); isNonEmptyObject(r) {
			return r
		}
	}
	return emptyObject
}

// section resolves a domain and unwraps its inner recommendation object.
func section(doc Document, d Domain) gjson.Result {
	obj := Resolve(doc, candidatePaths[d]...)
	if inner := obj.Get(innerWrappers[d]); isNonEmptyObject(inner) {
		return inner
	}
	return obj
}

func isNonEmptyObject(r gjson.Result) bool {
	if !r.IsObject() {
		return false
	}
	empty := true
	r.ForEach(func(_, _ gjson.Result) bool {
		empty = false
		return false
	})
	return !empty
}
