// voucherctl tareas de operación sobre la base de vouchers: migraciones, cargas masivas
// desde archivo y consulta de la genealogía.
//
// Uso:
//
//	voucherctl migrate [--status]
//	voucherctl import gsat|wifi|tv|atm <archivo.csv|xlsx>
//	voucherctl genealogy [--search término] [--root id] [--json]
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
