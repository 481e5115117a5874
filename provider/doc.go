// Package provider implements a small generic framework for swappable
// backends: a factory registry, availability-based selection, and a manager
// combining the two.
//
// The text-generation port uses it to register and select generation
// backends at runtime.
//
// # Usage
//
//	reg := provider.NewRegistry[MyProvider]()
//	reg.RegisterFactory("default", myFactory)
//	mgr := provider.NewManager(reg, &provider.HealthCheckSelector[MyProvider]{})
//	mgr.Initialize("default", cfg)
//	p, _ := mgr.Get(ctx)
package provider
