package initchecker

import (
	"fmt"
	"reflect"
)

// CheckInit recibe pares nombre/dependencia y entra en pánico si alguna no fue inicializada
func CheckInit(pairs ...any) {
	if len(pairs)%2 != 0 {
		panic("CheckInit: cantidad impar de argumentos")
	}
	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			panic("CheckInit: el primer elemento del par debe ser string")
		}
		if isNil(pairs[i+1]) {
			panic(fmt.Sprintf("dependencia %s no inicializada", name))
		}
	}
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
