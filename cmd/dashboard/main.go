// Comando dashboard: servicio del Dashboard de operación de bodega y utilidades de
// línea de comandos sobre la API de inventario.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
