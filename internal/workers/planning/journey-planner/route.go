// internal/workers/planning/journey-planner/route.go
package journeyplanner

import (
	"strings"

	"trip-concierge/internal/models"
)

// ZoneResolver maps place names to taxi zone ids and back.
type ZoneResolver interface {
	ZoneID(place string) (int, bool)
	ZoneName(id int) string
}

// BuildRoute lays out start -> one consolidated shopping stop (if any) -> destination.
func (h *Handler) BuildRoute(jc models.JourneyContext, stops []models.ShoppingStop) []models.RouteSegment {
	current := models.StringOr(jc.StartLocation, h.config.DefaultStartLocation)
	segment := 1
	var route []models.RouteSegment

	if len(stops) > 0 {
		var (
			products   []string
			reasons    []string
			candidates []models.StoreCandidate
		)
		seen := make(map[string]bool)
		for _, s := range stops {
			for _, p := range s.Products {
				if !seen[p] {
					seen[p] = true
					products = append(products, p)
				}
			}
			reasons = append(reasons, s.Reason)
			candidates = append(candidates, s.AvailableLocations...)
		}

		if store, ok := SelectStore(candidates, h.config.PreferredZone); ok {
			toID := store.LocationID
			route = append(route, models.RouteSegment{
				SegmentNumber:     segment,
				From:              current,
				FromLocationID:    h.zoneID(current),
				To:                store.Zone,
				ToLocationID:      &toID,
				StoreName:         store.Name,
				StopType:          models.StopShopping,
				Purpose:           h.config.ShoppingStopPurpose,
				Products:          products,
				Reasons:           reasons,
				EstimatedStopTime: h.config.ShoppingStopTime,
			})
			segment++
			current = store.Zone
		}
	}

	route = append(route, models.RouteSegment{
		SegmentNumber:  segment,
		From:           current,
		FromLocationID: h.zoneID(current),
		To:             jc.MainDestination,
		ToLocationID:   h.zoneID(jc.MainDestination),
		StopType:       models.StopDestination,
		Purpose:        string(jc.Purpose),
		ArrivalTime:    jc.Time,
	})
	return route
}

// SelectStore prefers the first candidate whose zone mentions preferred,
// falling back to the first candidate.
func SelectStore(candidates []models.StoreCandidate, preferred string) (models.StoreCandidate, bool) {
	if len(candidates) == 0 {
		return models.StoreCandidate{}, false
	}
	if preferred != "" {
		for _, c := range candidates {
			if strings.Contains(c.Zone, preferred) {
				return c, true
			}
		}
	}
	return candidates[0], true
}

func (h *Handler) zoneID(place string) *int {
	if id, ok := h.zones.ZoneID(place); ok {
		return &id
	}
	return nil
}
