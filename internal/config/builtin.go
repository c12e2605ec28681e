package config

// BuiltinLayouts returns the built-in layout library.
//
// These are always offered in the panel. A layout of the same name in the
// config file replaces the built-in one.
func BuiltinLayouts() map[string]Layout {
	full := TileRegion{Type: RegionFull}
	return map[string]Layout{
		"grid": {
			Mode:            LayoutModeAuto,
			TileRegion:      full,
			FlexibleLastRow: true,
		},
		"columns": {
			Mode:       LayoutModeHorizontal,
			TileRegion: full,
		},
		"rows": {
			Mode:       LayoutModeVertical,
			TileRegion: full,
		},
		"quad": {
			Mode:       LayoutModeFixed,
			TileRegion: full,
			FixedGrid:  FixedGrid{Rows: 2, Cols: 2},
		},
		"half-left": {
			Mode:            LayoutModeAuto,
			TileRegion:      TileRegion{Type: RegionLeftHalf},
			FlexibleLastRow: true,
		},
		"half-right": {
			Mode:            LayoutModeAuto,
			TileRegion:      TileRegion{Type: RegionRightHalf},
			FlexibleLastRow: true,
		},
		"master-stack": {
			Mode:       LayoutModeMasterStack,
			TileRegion: full,
			MasterStack: MasterStack{
				MasterWidthPercent: 60,
				MaxStackRows:       3,
				MaxStackCols:       1,
			},
		},
	}
}
