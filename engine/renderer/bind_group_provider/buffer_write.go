package bind_group_provider

// BufferWrite describes a pending queue write into the buffer stored on a provider at Binding.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}
