// Package hcl_adapter loads batch scripts written in HCL:
//
//	command "read_openfpga_arch" {
//	  file = "${env.ARCH_DIR}/k6_frac_N10.xml"
//	}
//
// Expressions may reference the process environment through the `env`
// object. Flag options take true or false; false leaves the flag out.
package hcl_adapter
