package executor

// Base RV32I/M/A/F opcode field values (bits [6:0]).
const (
	opLoad     = 0x03
	opLoadFP   = 0x07
	opMiscMem  = 0x0f
	opOpImm    = 0x13
	opAUIPC    = 0x17
	opStore    = 0x23
	opStoreFP  = 0x27
	opAMO      = 0x2f
	opOp       = 0x33
	opLUI      = 0x37
	opMAdd     = 0x43
	opMSub     = 0x47
	opNMSub    = 0x4b
	opNMAdd    = 0x4f
	opOpFP     = 0x53
	opBranch   = 0x63
	opJALR     = 0x67
	opJAL      = 0x6f
	opSystem   = 0x73
)

// funct12 values of the SYSTEM/funct3==0 privileged instructions.
const (
	funct12ECall  = 0x000
	funct12EBreak = 0x001
	funct12MRet   = 0x302
	funct12WFI    = 0x105
)

// funct7 values within opOp / opOpFP.
const (
	funct7Base  = 0x00
	funct7Alt   = 0x20 // SUB / SRA
	funct7MULDIV = 0x01

	funct7FAdd     = 0x00
	funct7FSub     = 0x04
	funct7FMul     = 0x08
	funct7FDiv     = 0x0c
	funct7FSqrt    = 0x2c
	funct7FSgnj    = 0x10
	funct7FMinMax  = 0x14
	funct7FCvtWS   = 0x60
	funct7FCvtSW   = 0x68
	funct7FMvXWClass = 0x70
	funct7FMvWX    = 0x78
	funct7FCmp     = 0x50
)
