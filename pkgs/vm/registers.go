package vm

// Conventional register names. Any string is accepted as a register name.
const (
	R0  = "r0"
	R1  = "r1"
	R2  = "r2"
	R3  = "r3"
	R4  = "r4"
	R5  = "r5"
	R6  = "r6"
	R7  = "r7"
	R8  = "r8"
	R9  = "r9"
	R10 = "r10"
)

// SetRegister stores value in a register. The register store belongs to the
// VM and is separate from the execution context: macro arguments reach
// libraries as the variables r0, r1, ..., so use SetVariable to pass a library
// an operand.
func (v *VM) SetRegister(name, value string) {
	v.registers[name] = value
}

// Register reads a register
func (v *VM) Register(name string) (string, bool) {
	value, ok := v.registers[name]
	return value, ok
}

// ClearRegister removes a register
func (v *VM) ClearRegister(name string) {
	delete(v.registers, name)
}

// ClearRegisters removes every register
func (v *VM) ClearRegisters() {
	v.registers = make(map[string]string)
}

// Registers returns a copy of the register store
func (v *VM) Registers() map[string]string {
	registers := make(map[string]string, len(v.registers))
	for k, val := range v.registers {
		registers[k] = val
	}
	return registers
}
