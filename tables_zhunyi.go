package panel

var (
	// Vendor initialization sequence of the Zhunyi GH8555BL module.
	zhunyiTable = MustCommandTable(DCSWrite, JD9365PageSelector,
		SwitchPage(0),
		WriteRegister(0xE1, 0x93),
		WriteRegister(0xE2, 0x65),
		WriteRegister(0xE3, 0xF8),
		WriteRegister(0x80, 0x03),

		SwitchPage(1),
		WriteRegister(0x00, 0x00),
		WriteRegister(0x01, 0x25),
		WriteRegister(0x03, 0x00),
		WriteRegister(0x04, 0x30),
		WriteRegister(0x0C, 0x74),
		WriteRegister(0x17, 0x00),
		WriteRegister(0x18, 0xC7),
		WriteRegister(0x19, 0x01),
		WriteRegister(0x1A, 0x00),
		WriteRegister(0x1B, 0xC7),
		WriteRegister(0x1C, 0x01),
		WriteRegister(0x24, 0xFE),
		WriteRegister(0x37, 0x19),
		WriteRegister(0x35, 0x28),
		WriteRegister(0x38, 0x05),
		WriteRegister(0x39, 0x08),
		WriteRegister(0x3A, 0x12),
		WriteRegister(0x3C, 0x7E),
		WriteRegister(0x3D, 0xFF),
		WriteRegister(0x3E, 0xFF),
		WriteRegister(0x3F, 0x7F),
		WriteRegister(0x40, 0x06),
		WriteRegister(0x41, 0xA0),
		WriteRegister(0x43, 0x1E),
		WriteRegister(0x44, 0x0B),
		WriteRegister(0x55, 0x02),
		WriteRegister(0x57, 0x6A),
		WriteRegister(0x59, 0x0A),
		WriteRegister(0x5A, 0x2E),
		WriteRegister(0x5B, 0x1A),
		WriteRegister(0x5C, 0x15),
		WriteRegister(0x5D, 0x7F),
		WriteRegister(0x5E, 0x61),
		WriteRegister(0x5F, 0x50),
		WriteRegister(0x60, 0x43),
		WriteRegister(0x61, 0x3F),
		WriteRegister(0x62, 0x32),
		WriteRegister(0x63, 0x35),
		WriteRegister(0x64, 0x1F),
		WriteRegister(0x65, 0x38),
		WriteRegister(0x66, 0x36),
		WriteRegister(0x67, 0x36),
		WriteRegister(0x68, 0x54),
		WriteRegister(0x69, 0x42),
		WriteRegister(0x6A, 0x48),
		WriteRegister(0x6B, 0x39),
		WriteRegister(0x6C, 0x34),
		WriteRegister(0x6D, 0x26),
		WriteRegister(0x6E, 0x14),
		WriteRegister(0x6F, 0x02),
		WriteRegister(0x70, 0x7F),
		WriteRegister(0x71, 0x61),
		WriteRegister(0x72, 0x50),
		WriteRegister(0x73, 0x43),
		WriteRegister(0x74, 0x3F),
		WriteRegister(0x75, 0x32),
		WriteRegister(0x76, 0x35),
		WriteRegister(0x77, 0x1F),
		WriteRegister(0x78, 0x38),
		WriteRegister(0x79, 0x36),
		WriteRegister(0x7A, 0x36),
		WriteRegister(0x7B, 0x54),
		WriteRegister(0x7C, 0x42),
		WriteRegister(0x7D, 0x48),
		WriteRegister(0x7E, 0x39),
		WriteRegister(0x7F, 0x34),
		WriteRegister(0x80, 0x26),
		WriteRegister(0x81, 0x14),
		WriteRegister(0x82, 0x02),

		SwitchPage(2),
		WriteRegister(0x00, 0x52),
		WriteRegister(0x01, 0x5F),
		WriteRegister(0x02, 0x5F),
		WriteRegister(0x03, 0x50),
		WriteRegister(0x04, 0x77),
		WriteRegister(0x05, 0x57),
		WriteRegister(0x06, 0x5F),
		WriteRegister(0x07, 0x4E),
		WriteRegister(0x08, 0x4C),
		WriteRegister(0x09, 0x5F),
		WriteRegister(0x0A, 0x4A),
		WriteRegister(0x0B, 0x48),
		WriteRegister(0x0C, 0x5F),
		WriteRegister(0x0D, 0x46),
		WriteRegister(0x0E, 0x44),
		WriteRegister(0x0F, 0x40),
		WriteRegister(0x10, 0x5F),
		WriteRegister(0x11, 0x5F),
		WriteRegister(0x12, 0x5F),
		WriteRegister(0x13, 0x5F),
		WriteRegister(0x14, 0x5F),
		WriteRegister(0x15, 0x5F),
		WriteRegister(0x16, 0x53),
		WriteRegister(0x17, 0x5F),
		WriteRegister(0x18, 0x5F),
		WriteRegister(0x19, 0x51),
		WriteRegister(0x1A, 0x77),
		WriteRegister(0x1B, 0x57),
		WriteRegister(0x1C, 0x5F),
		WriteRegister(0x1D, 0x4F),
		WriteRegister(0x1E, 0x4D),
		WriteRegister(0x1F, 0x5F),
		WriteRegister(0x20, 0x4B),
		WriteRegister(0x21, 0x49),
		WriteRegister(0x22, 0x5F),
		WriteRegister(0x23, 0x47),
		WriteRegister(0x24, 0x45),
		WriteRegister(0x25, 0x41),
		WriteRegister(0x26, 0x5F),
		WriteRegister(0x27, 0x5F),
		WriteRegister(0x28, 0x5F),
		WriteRegister(0x29, 0x5F),
		WriteRegister(0x2A, 0x5F),
		WriteRegister(0x2B, 0x5F),
		WriteRegister(0x2C, 0x13),
		WriteRegister(0x2D, 0x1F),
		WriteRegister(0x2E, 0x1F),
		WriteRegister(0x2F, 0x01),
		WriteRegister(0x30, 0x17),
		WriteRegister(0x31, 0x17),
		WriteRegister(0x32, 0x1F),
		WriteRegister(0x33, 0x0D),
		WriteRegister(0x34, 0x0F),
		WriteRegister(0x35, 0x1F),
		WriteRegister(0x36, 0x05),
		WriteRegister(0x37, 0x07),
		WriteRegister(0x38, 0x1F),
		WriteRegister(0x39, 0x09),
		WriteRegister(0x3A, 0x0B),
		WriteRegister(0x3B, 0x11),
		WriteRegister(0x3C, 0x1F),
		WriteRegister(0x3D, 0x1F),
		WriteRegister(0x3E, 0x1F),
		WriteRegister(0x3F, 0x1F),
		WriteRegister(0x40, 0x1F),
		WriteRegister(0x41, 0x1F),
		WriteRegister(0x42, 0x12),
		WriteRegister(0x43, 0x1F),
		WriteRegister(0x44, 0x1F),
		WriteRegister(0x45, 0x00),
		WriteRegister(0x46, 0x17),
		WriteRegister(0x47, 0x17),
		WriteRegister(0x48, 0x1F),
		WriteRegister(0x49, 0x0C),
		WriteRegister(0x4A, 0x0E),
		WriteRegister(0x4B, 0x1F),
		WriteRegister(0x4C, 0x04),
		WriteRegister(0x4D, 0x06),
		WriteRegister(0x4E, 0x1F),
		WriteRegister(0x4F, 0x08),
		WriteRegister(0x50, 0x0A),
		WriteRegister(0x51, 0x10),
		WriteRegister(0x52, 0x1F),
		WriteRegister(0x53, 0x1F),
		WriteRegister(0x54, 0x1F),
		WriteRegister(0x55, 0x1F),
		WriteRegister(0x56, 0x1F),
		WriteRegister(0x57, 0x1F),
		WriteRegister(0x58, 0x40),
		WriteRegister(0x5B, 0x10),
		WriteRegister(0x5C, 0x06),
		WriteRegister(0x5D, 0x40),
		WriteRegister(0x5E, 0x00),
		WriteRegister(0x5F, 0x00),
		WriteRegister(0x60, 0x40),
		WriteRegister(0x61, 0x03),
		WriteRegister(0x62, 0x04),
		WriteRegister(0x63, 0x6C),
		WriteRegister(0x64, 0x6C),
		WriteRegister(0x65, 0x75),
		WriteRegister(0x66, 0x08),
		WriteRegister(0x67, 0xB4),
		WriteRegister(0x68, 0x08),
		WriteRegister(0x69, 0x6C),
		WriteRegister(0x6A, 0x6C),
		WriteRegister(0x6B, 0x0C),
		WriteRegister(0x6D, 0x00),
		WriteRegister(0x6E, 0x00),
		WriteRegister(0x6F, 0x88),
		WriteRegister(0x75, 0xBB),
		WriteRegister(0x76, 0x00),
		WriteRegister(0x77, 0x05),
		WriteRegister(0x78, 0x2A),

		SwitchPage(4),
		WriteRegister(0x00, 0x0E),
		WriteRegister(0x02, 0xB3),
		WriteRegister(0x09, 0x61),
		WriteRegister(0x0E, 0x48),

		SwitchPage(0),
	)
)
