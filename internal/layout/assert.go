package layout

var (
	_ System = (*TraditionalLayout)(nil)
	_ System = (*BSPLayout)(nil)
	_ System = (*DwindleLayout)(nil)
)
