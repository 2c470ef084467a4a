package tools

// DefaultRegistry registers the full trip-planning tool set with live
// external lookups where a provider exists.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, def := range []Definition{
		RouteDefinition(nil),
		AccommodationDefinition(nil),
		WeatherDefinition(nil),
		ElevationDefinition(),
		POIDefinition(),
		BudgetDefinition(),
		VisaDefinition(),
	} {
		// definitions are static; a registration failure is a programming error
		if err := r.Register(def); err != nil {
			panic(err)
		}
	}
	return r
}
