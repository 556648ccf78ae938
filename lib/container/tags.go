package container

// Type is the 10-bit tag type code read from the short tag header. The
// numbering is a closed, historical set; values with no assigned
// meaning below are still legal to carry as an opaque Tag.Payload.
type Type uint16

const (
	TypeEnd                          Type = 0
	TypeShowFrame                    Type = 1
	TypeDefineShape                  Type = 2
	TypePlaceObject                  Type = 4
	TypeRemoveObject                 Type = 5
	TypeDefineBits                   Type = 6
	TypeDefineButton                 Type = 7
	TypeJPEGTables                   Type = 8
	TypeSetBackgroundColor           Type = 9
	TypeDefineFont                   Type = 10
	TypeDefineText                   Type = 11
	TypeDoAction                     Type = 12
	TypeDefineFontInfo               Type = 13
	TypeDefineSound                  Type = 14
	TypeStartSound                   Type = 15
	TypeDefineButtonSound            Type = 17
	TypeSoundStreamHead              Type = 18
	TypeSoundStreamBlock             Type = 19
	TypeDefineBitsLossless           Type = 20
	TypeDefineBitsJPEG2              Type = 21
	TypeDefineShape2                 Type = 22
	TypeDefineButtonCXForm           Type = 23
	TypeProtect                      Type = 24
	TypePlaceObject2                 Type = 26
	TypeRemoveObject2                Type = 28
	TypeDefineShape3                 Type = 32
	TypeDefineText2                  Type = 33
	TypeDefineButton2                Type = 34
	TypeDefineBitsJPEG3              Type = 35
	TypeDefineBitsLossless2          Type = 36
	TypeDefineEditText               Type = 37
	TypeDefineSprite                 Type = 39
	TypeFrameLabel                   Type = 43
	TypeSoundStreamHead2             Type = 45
	TypeDefineMorphShape             Type = 46
	TypeDefineFont2                  Type = 48
	TypeExportAssets                 Type = 56
	TypeImportAssets                 Type = 57
	TypeEnableDebugger               Type = 58
	TypeDoInitAction                 Type = 59
	TypeDefineVideoStream            Type = 60
	TypeVideoFrame                   Type = 61
	TypeDefineFontInfo2              Type = 62
	TypeEnableDebugger2              Type = 64
	TypeScriptLimits                 Type = 65
	TypeSetTabIndex                  Type = 66
	TypeFileAttributes               Type = 69
	TypePlaceObject3                 Type = 70
	TypeImportAssets2                Type = 71
	TypeDefineFontAlignZones         Type = 73
	TypeCSMTextSettings              Type = 74
	TypeDefineFont3                  Type = 75
	TypeSymbolClass                  Type = 76
	TypeMetadata                     Type = 77
	TypeDefineScalingGrid            Type = 78
	TypeDoABC                        Type = 82
	TypeDefineShape4                 Type = 83
	TypeDefineMorphShape2            Type = 84
	TypeDefineSceneAndFrameLabelData Type = 86
	TypeDefineBinaryData             Type = 87
	TypeDefineFontName               Type = 88
	TypeStartSound2                  Type = 89
	TypeDefineBitsJPEG4              Type = 90
	TypeDefineFont4                  Type = 91
	TypeEnableTelemetry              Type = 93
)

// idPrefixed is the set of tag types whose payload begins with a
// 2-byte dictionary ID, read (and stripped from the remaining payload
// length) before the rest of the payload is copied verbatim.
var idPrefixed = map[Type]bool{
	TypeDefineShape:         true,
	TypeDefineBits:          true,
	TypeDefineButton:        true,
	TypeDefineFont:          true,
	TypeDefineText:          true,
	TypeDefineSound:         true,
	TypeDefineBitsLossless:  true,
	TypeDefineBitsJPEG2:     true,
	TypeDefineShape2:        true,
	TypeDefineShape3:        true,
	TypeDefineText2:         true,
	TypeDefineButton2:       true,
	TypeDefineBitsJPEG3:     true,
	TypeDefineBitsLossless2: true,
	TypeDefineEditText:      true,
	TypeDefineSprite:        true,
	TypeDefineMorphShape:    true,
	TypeDefineFont2:         true,
	TypeDefineVideoStream:   true,
	TypeDefineFont3:         true,
	TypeDefineShape4:        true,
	TypeDefineMorphShape2:   true,
	TypeDefineBitsJPEG4:     true,
}

// IsIDPrefixed reports whether t's payload begins with a 2-byte
// dictionary ID that the framer reads into Tag.ID, separately from
// Tag.Payload.
func IsIDPrefixed(t Type) bool {
	return idPrefixed[t]
}
