package c8vm

type Hook func(cpu *Cpu)

// AddBeforeFrameHook adds a hook that runs before every frame
func (cpu *Cpu) AddBeforeFrameHook(h Hook) int {
	cpu.beforeFrameHooks = append(cpu.beforeFrameHooks, h)

	return len(cpu.beforeFrameHooks)
}

// AddAfterFrameHook adds a hook that runs after every frame
func (cpu *Cpu) AddAfterFrameHook(h Hook) int {
	cpu.afterFrameHooks = append(cpu.afterFrameHooks, h)

	return len(cpu.afterFrameHooks)
}

// AddBeforeCycleHook adds a hook that runs before every instruction
func (cpu *Cpu) AddBeforeCycleHook(h Hook) int {
	cpu.beforeCycleHooks = append(cpu.beforeCycleHooks, h)

	return len(cpu.beforeCycleHooks)
}

// AddAfterCycleHook adds a hook that runs after every instruction
func (cpu *Cpu) AddAfterCycleHook(h Hook) int {
	cpu.afterCycleHooks = append(cpu.afterCycleHooks, h)

	return len(cpu.afterCycleHooks)
}

// AddErrorHook adds a hook that runs when the CPU halts on an error
func (cpu *Cpu) AddErrorHook(h Hook) int {
	cpu.errorHooks = append(cpu.errorHooks, h)

	return len(cpu.errorHooks)
}

func (cpu *Cpu) runBeforeFrameHooks() {
	cpu.runHooks(cpu.beforeFrameHooks)
}

func (cpu *Cpu) runAfterFrameHooks() {
	cpu.runHooks(cpu.afterFrameHooks)
}

func (cpu *Cpu) runBeforeCycleHooks() {
	cpu.runHooks(cpu.beforeCycleHooks)
}

func (cpu *Cpu) runAfterCycleHooks() {
	cpu.runHooks(cpu.afterCycleHooks)
}

func (cpu *Cpu) runErrorHooks() {
	cpu.runHooks(cpu.errorHooks)
}

func (cpu *Cpu) runHooks(hooks []Hook) {
	for _, h := range hooks {
		h(cpu)
	}
}
