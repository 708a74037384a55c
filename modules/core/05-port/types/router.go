package types

import (
	"errors"
	"fmt"
	"regexp"
	"slices"

	errorsmod "cosmossdk.io/errors"

	host "github.com/cosmos/ibc-core/modules/core/24-host"
)

var isAlphaNumeric = regexp.MustCompile(`^[a-zA-Z0-9]+$`).MatchString

// Router resolves the application module bound to a port.
type Router interface {
	// GetRoute returns the callbacks registered under the given module identifier.
	GetRoute(moduleID string) (IBCModule, bool)
	// LookupModuleByPort returns the identifier of the module bound to the port.
	LookupModuleByPort(portID string) (string, bool)
}

var _ Router = (*ModuleRouter)(nil)

// The ModuleRouter is a map from module name to the IBCModule
// which contains all the module-defined callbacks required by ICS-26,
// together with the port bindings of those modules.
type ModuleRouter struct {
	routes map[string]IBCModule
	ports  map[string]string
	sealed bool
}

func NewRouter() *ModuleRouter {
	return &ModuleRouter{
		routes: make(map[string]IBCModule),
		ports:  make(map[string]string),
	}
}

// Seal prevents the ModuleRouter from any subsequent route handlers to be registered.
// Seal will panic if called more than once.
func (rtr *ModuleRouter) Seal() {
	if rtr.sealed {
		panic(errors.New("router already sealed"))
	}
	rtr.sealed = true
}

// Sealed returns a boolean signifying if the ModuleRouter is sealed or not.
func (rtr ModuleRouter) Sealed() bool {
	return rtr.sealed
}

// AddRoute adds IBCModule for a given module name. It returns the ModuleRouter
// so AddRoute calls can be linked. It will panic if the ModuleRouter is sealed.
func (rtr *ModuleRouter) AddRoute(module string, cbs IBCModule) *ModuleRouter {
	if rtr.sealed {
		panic(fmt.Errorf("router sealed; cannot register %s route callbacks", module))
	}
	if !isAlphaNumeric(module) {
		panic(errors.New("route expressions can only contain alphanumeric characters"))
	}
	if _, ok := rtr.routes[module]; ok {
		panic(fmt.Errorf("route %s has already been registered", module))
	}
	if cbs == nil {
		panic(fmt.Errorf("no callbacks provided for route %s", module))
	}

	rtr.routes[module] = cbs

	return rtr
}

// BindPort binds the port to a registered module. A port is bound to at most one
// module at a time; binding it again to the same module is a no-op.
func (rtr *ModuleRouter) BindPort(portID, module string) error {
	if err := host.PortIdentifierValidator(portID); err != nil {
		return errorsmod.Wrap(ErrInvalidPort, err.Error())
	}
	if _, ok := rtr.routes[module]; !ok {
		return errorsmod.Wrapf(ErrInvalidRoute, "route %s does not exist", module)
	}

	if bound, ok := rtr.ports[portID]; ok {
		if bound == module {
			return nil
		}
		return errorsmod.Wrapf(ErrPortExists, "port %s is bound to module %s", portID, bound)
	}

	rtr.ports[portID] = module
	return nil
}

// GetRoute implements Router.
func (rtr *ModuleRouter) GetRoute(module string) (IBCModule, bool) {
	cbs, ok := rtr.routes[module]
	return cbs, ok
}

// LookupModuleByPort implements Router.
func (rtr *ModuleRouter) LookupModuleByPort(portID string) (string, bool) {
	module, ok := rtr.ports[portID]
	return module, ok
}

// Ports returns the bound ports in sorted order.
func (rtr *ModuleRouter) Ports() []string {
	ports := make([]string, 0, len(rtr.ports))
	for portID := range rtr.ports {
		ports = append(ports, portID)
	}
	slices.Sort(ports)
	return ports
}

// LookupModule returns the callbacks of the module bound to the given port.
func LookupModule(router Router, portID string) (IBCModule, error) {
	module, ok := router.LookupModuleByPort(portID)
	if !ok {
		return nil, errorsmod.Wrapf(ErrPortNotFound, "no module bound to port %s", portID)
	}

	cbs, ok := router.GetRoute(module)
	if !ok {
		return nil, errorsmod.Wrapf(ErrInvalidRoute, "route not found to module: %s", module)
	}
	return cbs, nil
}
