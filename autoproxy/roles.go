package autoproxy

import "reflect"

// Role classifies a component's part in the proxying machinery itself.
// The set is closed: components declare their role through RoleCarrier
// and everything else is RolePlain.
type Role int

const (
	// RolePlain marks an ordinary application component, eligible for
	// proxying.
	RolePlain Role = iota
	// RoleAdvice marks a component that carries interception logic.
	RoleAdvice
	// RolePointcut marks a component that decides where behaviors apply.
	RolePointcut
	// RoleAdvisor marks a component pairing advice with a pointcut.
	RoleAdvisor
	// RoleInfrastructure marks internal proxying machinery.
	RoleInfrastructure
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RolePlain:
		return "plain"
	case RoleAdvice:
		return "advice"
	case RolePointcut:
		return "pointcut"
	case RoleAdvisor:
		return "advisor"
	case RoleInfrastructure:
		return "infrastructure"
	default:
		return "unknown"
	}
}

// RoleCarrier is implemented by components that are part of the proxying
// machinery. Components without it are RolePlain.
type RoleCarrier interface {
	ContainerRole() Role
}

var roleCarrierType = reflect.TypeOf((*RoleCarrier)(nil)).Elem()

// RoleOf returns the declared role of v.
func RoleOf(v any) Role {
	if rc, ok := v.(RoleCarrier); ok {
		return rc.ContainerRole()
	}
	return RolePlain
}

// roleOfKind resolves the role declared by a component type. The role is
// a static property of the type, so a zero instance answers for it.
func roleOfKind(kind reflect.Type) Role {
	if kind == nil {
		return RolePlain
	}
	if kind.Implements(roleCarrierType) {
		var zero reflect.Value
		if kind.Kind() == reflect.Pointer {
			zero = reflect.New(kind.Elem())
		} else {
			zero = reflect.Zero(kind)
		}
		return zero.Interface().(RoleCarrier).ContainerRole()
	}
	if kind.Kind() != reflect.Pointer && reflect.PointerTo(kind).Implements(roleCarrierType) {
		return reflect.New(kind).Interface().(RoleCarrier).ContainerRole()
	}
	return RolePlain
}

// isInfrastructureRole reports whether a role excludes a component from
// being proxied.
func isInfrastructureRole(r Role) bool {
	return r != RolePlain
}
