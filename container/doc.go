// Package container is the top-level facade: it wires settings, logging,
// observability, the singleton registry, the lifecycle hook chain and
// the auto-proxy creator into one object.
//
// Typical wiring:
//
//	settings, err := container.LoadSettings("orders")
//	if err != nil {
//	    return err
//	}
//	c, err := container.New(settings, container.WithSelector(auditSelector))
//	if err != nil {
//	    return err
//	}
//	defer c.Shutdown(context.Background())
//
//	svc, err := c.Provide(lifecycle.Definition{
//	    Name: "orderService",
//	    New:  func() (any, error) { return newOrderService(), nil },
//	})
package container
