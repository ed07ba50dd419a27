package decode

var encodingNames = map[Encoding]string{
	Unsupported:      "UNSUPPORTED",
	LSLImm:           "LSL",
	LSRImm:           "LSR",
	ASRImm:           "ASR",
	AddReg:           "ADD",
	SubReg:           "SUB",
	AddImm3:          "ADD",
	SubImm3:          "SUB",
	MovImm8:          "MOV",
	CmpImm8:          "CMP",
	AddImm8:          "ADD",
	SubImm8:          "SUB",
	ALU:              "ALU",
	AddHi:            "ADD",
	CmpHi:            "CMP",
	MovHi:            "MOV",
	BxBlx:            "BX/BLX",
	LdrLiteral:       "LDR",
	LoadStoreReg:     "LDR/STR",
	LoadStoreImm:     "LDR/STR",
	LoadStoreHalfImm: "LDRH/STRH",
	LoadStoreSP:      "LDR/STR",
	Adr:              "ADR",
	AddSPImm8:        "ADD",
	AddSubSPImm7:     "ADD/SUB",
	Extend:           "SXT/UXT",
	Rev:              "REV",
	Cps:              "CPS",
	Hint:             "HINT",
	PushPop:          "PUSH/POP",
	LdmiaStmia:       "LDMIA/STMIA",
	Bcond:            "Bcc",
	UdfT1:            "UDF",
	Svc:              "SVC",
	BUncond:          "B",
	BlT1:             "BL",
	Mrs:              "MRS",
	Msr:              "MSR",
	Dmb:              "DMB",
	Dsb:              "DSB",
	Isb:              "ISB",
	UdfT2:            "UDF.W",
}

// String returns the instruction's mnemonic group, used by the
// inspect CLI's trace output. Several encodings cover more than one
// mnemonic (e.g. LoadStoreReg spans eight sub-operations); String
// names the group, not the specific sub-operation.
func (e Encoding) String() string {
	if s, ok := encodingNames[e]; ok {
		return s
	}
	return "?"
}
